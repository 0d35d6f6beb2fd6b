package pointset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// LoadGeoJSON reads a point set from a GeoJSON FeatureCollection of
// Point features. The feature's "name" or "description" property (in
// that preference order) becomes the pic description. Non-point
// geometries are rejected: malformed submission data stops at this
// boundary, not inside the scoring core.
func LoadGeoJSON(path, name string) (PointSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PointSet{}, eris.Wrapf(err, "pointset: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return PointSet{}, eris.Wrapf(err, "pointset: parse geojson %s", path)
	}

	ps := PointSet{Name: name}
	for i, feature := range fc.Features {
		point, ok := feature.Geometry.(*geom.Point)
		if !ok {
			return PointSet{}, eris.Errorf(
				"pointset: %s feature %d is not a point (%T)", path, i, feature.Geometry)
		}
		coords := point.Coords()
		if len(coords) < 2 {
			return PointSet{}, eris.Errorf("pointset: %s feature %d has no coordinates", path, i)
		}
		ps.Pics = append(ps.Pics, Pic{
			Description: featureDescription(feature.Properties),
			Location:    coordFromXY(coords[0], coords[1]),
		})
	}

	validated, _ := ps.Validate()
	return validated, nil
}

func featureDescription(properties map[string]any) string {
	for _, key := range []string{"name", "description"} {
		if v, ok := properties[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
			if v != nil {
				return fmt.Sprint(v)
			}
		}
	}
	return ""
}
