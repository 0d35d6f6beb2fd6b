package pointset

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/tpg"
)

// LoadShapefile reads a point set from an ESRI shapefile of point
// geometries. The description comes from the first attribute field
// named name, label or description (case-insensitive), if one exists.
func LoadShapefile(path, name string) (PointSet, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return PointSet{}, eris.Wrapf(err, "pointset: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	descIdx := -1
	for i, f := range reader.Fields() {
		fieldName := strings.ToLower(strings.TrimRight(f.String(), "\x00"))
		switch fieldName {
		case "name", "label", "description":
			descIdx = i
		}
		if descIdx != -1 {
			break
		}
	}

	ps := PointSet{Name: name}
	for i := 0; reader.Next(); i++ {
		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			return PointSet{}, eris.Errorf("pointset: %s shape %d is not a point (%T)", path, i, shape)
		}
		pic := Pic{Location: coordFromXY(point.X, point.Y)}
		if descIdx != -1 {
			pic.Description = strings.TrimSpace(strings.TrimRight(reader.Attribute(descIdx), "\x00"))
		}
		ps.Pics = append(ps.Pics, pic)
	}

	validated, _ := ps.Validate()
	return validated, nil
}

// coordFromXY converts GIS x/y ordering (longitude first) into a
// Coordinate.
func coordFromXY(x, y float64) tpg.Coordinate {
	return tpg.Coordinate{Lat: y, Lng: x}
}
