package pointset

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/tpg"
)

// The submission trackers are Google My Maps exports: one KML folder
// per round, the first placemark being the round target (optionally
// followed by its antipode), the rest being player submissions named
// after the player.

type kmlDocument struct {
	Document struct {
		Folders []kmlFolder `xml:"Folder"`
	} `xml:"Document"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	StyleURL    string `xml:"styleUrl"`
	Point       *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

func (p kmlPlacemark) coordinate() (tpg.Coordinate, error) {
	if p.Point == nil {
		return tpg.Coordinate{}, eris.Errorf("pointset: %s's submission is pointless", p.Name)
	}
	// lng,lat,elevation; elevation is unused and always 0 here.
	parts := strings.Split(strings.TrimSpace(p.Point.Coordinates), ",")
	if len(parts) < 2 {
		return tpg.Coordinate{}, eris.Errorf("pointset: %s has a point with no coordinates", p.Name)
	}
	lng, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return tpg.Coordinate{}, eris.Wrapf(err, "pointset: %s longitude", p.Name)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return tpg.Coordinate{}, eris.Wrapf(err, "pointset: %s latitude", p.Name)
	}
	return tpg.Coordinate{Lat: lat, Lng: lng}, nil
}

// LoadTracker parses a submission tracker KML or KMZ file into rounds.
// startRound numbers the first folder; includeAntipode treats each
// folder's second placemark as the target's antipode rather than a
// submission. The returned rounds are unscored.
func LoadTracker(path string, startRound int, includeAntipode bool) ([]tpg.Round, error) {
	doc, err := parseKML(path)
	if err != nil {
		return nil, err
	}

	var rounds []tpg.Round
	for i, folder := range doc.Document.Folders {
		number := startRound + i
		r, err := convertFolder(folder, number, includeAntipode)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, nil
}

// LoadTrackers parses several tracker files in order, continuing the
// round numbering across files. My Maps caps layers at 10 per map, so
// long seasons span multiple files.
func LoadTrackers(paths []string, startRound int, includeAntipode bool) ([]tpg.Round, error) {
	var all []tpg.Round
	next := startRound
	for _, path := range paths {
		rounds, err := LoadTracker(path, next, includeAntipode)
		if err != nil {
			return nil, err
		}
		all = append(all, rounds...)
		next += len(rounds)
	}
	return all, nil
}

func parseKML(path string) (*kmlDocument, error) {
	var reader io.ReadCloser
	if strings.EqualFold(filepath.Ext(path), ".kmz") {
		z, err := zip.OpenReader(path)
		if err != nil {
			return nil, eris.Wrapf(err, "pointset: open kmz %s", path)
		}
		defer func() { _ = z.Close() }()
		f, err := z.Open("doc.kml")
		if err != nil {
			return nil, eris.Wrapf(err, "pointset: %s has no doc.kml", path)
		}
		reader = f
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "pointset: open kml %s", path)
		}
		reader = f
	}
	defer func() { _ = reader.Close() }()

	var doc kmlDocument
	if err := xml.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, eris.Wrapf(err, "pointset: parse kml %s", path)
	}
	if len(doc.Document.Folders) == 0 {
		return nil, eris.Errorf("pointset: %s has no round folders", path)
	}
	return &doc, nil
}

func convertFolder(folder kmlFolder, number int, includeAntipode bool) (tpg.Round, error) {
	skip := 1
	if includeAntipode {
		skip = 2
	}
	if len(folder.Placemarks) < skip {
		return tpg.Round{}, eris.Errorf("pointset: round folder %q has no target", folder.Name)
	}

	target, err := folder.Placemarks[0].coordinate()
	if err != nil {
		return tpg.Round{}, err
	}

	r := tpg.Round{
		Name:      folder.Name,
		Number:    number,
		Latitude:  target.Lat,
		Longitude: target.Lng,
	}
	for _, placemark := range folder.Placemarks[skip:] {
		loc, err := placemark.coordinate()
		if err != nil {
			// One broken placemark shouldn't sink the whole tracker.
			zap.L().Warn("skipping tracker submission", zap.String("round", folder.Name), zap.Error(err))
			continue
		}
		sub := tpg.Submission{
			Name:        placemark.Name,
			Latitude:    loc.Lat,
			Longitude:   loc.Lng,
			Description: placemark.Description,
		}
		if placemark.StyleURL != "" {
			sub.Extra = map[string]string{"style": placemark.StyleURL}
		}
		r.Submissions = append(r.Submissions, sub)
	}
	return r, nil
}
