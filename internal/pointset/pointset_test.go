package pointset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelpics/tpg/internal/tpg"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	ps := PointSet{
		Name: "alice",
		Pics: []Pic{
			{Description: "keep", Location: tpg.Coordinate{Lat: -33.8688, Lng: 151.2093}},
			{Description: "nan", Location: tpg.Coordinate{Lat: math.NaN(), Lng: 0}},
			{Description: "inf", Location: tpg.Coordinate{Lat: 0, Lng: math.Inf(1)}},
			{Description: "too north", Location: tpg.Coordinate{Lat: 90.01, Lng: 0}},
			{Description: "too west", Location: tpg.Coordinate{Lat: 0, Lng: -180.5}},
			// Duplicate of the first at 6 decimal places.
			{Description: "dupe", Location: tpg.Coordinate{Lat: -33.8688000004, Lng: 151.2093}},
			{Description: "distinct", Location: tpg.Coordinate{Lat: -33.8689, Lng: 151.2093}},
		},
	}

	clean, dropped := ps.Validate()
	assert.Equal(t, 5, dropped)
	require.Len(t, clean.Pics, 2)
	assert.Equal(t, "keep", clean.Pics[0].Description)
	assert.Equal(t, "distinct", clean.Pics[1].Description)
}

func TestValidateKeepsBoundaryValues(t *testing.T) {
	t.Parallel()

	ps := PointSet{Name: "edge", Pics: []Pic{
		{Location: tpg.Coordinate{Lat: 90, Lng: 180}},
		{Location: tpg.Coordinate{Lat: -90, Lng: -180}},
	}}
	clean, dropped := ps.Validate()
	assert.Zero(t, dropped)
	assert.Len(t, clean.Pics, 2)
}

func TestFromRounds(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{
		{
			Number: 1,
			Submissions: []tpg.Submission{
				{Name: "alice", Latitude: 1, Longitude: 1, Description: "first"},
				{Name: "bob", Latitude: 2, Longitude: 2},
			},
		},
		{
			Number: 2,
			Submissions: []tpg.Submission{
				{Name: "bob", Latitude: 3, Longitude: 3},
				// Re-used pic dedupes away.
				{Name: "alice", Latitude: 1, Longitude: 1},
			},
		},
	}

	sets := FromRounds(rounds)
	require.Len(t, sets, 2)
	assert.Equal(t, "alice", sets[0].Name)
	assert.Len(t, sets[0].Pics, 1)
	assert.Equal(t, "bob", sets[1].Name)
	assert.Len(t, sets[1].Pics, 2)
}

func TestLoadGeoJSON(t *testing.T) {
	t.Parallel()

	const doc = `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "Lisbon tram"},
				"geometry": {"type": "Point", "coordinates": [-9.1393, 38.7223]}
			},
			{
				"type": "Feature",
				"properties": {},
				"geometry": {"type": "Point", "coordinates": [151.2093, -33.8688]}
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "pics.geojson")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ps, err := LoadGeoJSON(path, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", ps.Name)
	require.Len(t, ps.Pics, 2)
	assert.Equal(t, "Lisbon tram", ps.Pics[0].Description)
	assert.InDelta(t, 38.7223, ps.Pics[0].Location.Lat, 1e-9)
	assert.InDelta(t, -9.1393, ps.Pics[0].Location.Lng, 1e-9)
}

func TestLoadGeoJSONRejectsNonPoints(t *testing.T) {
	t.Parallel()

	const doc = `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {},
				"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "bad.geojson")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadGeoJSON(path, "alice")
	assert.Error(t, err)
}

const trackerKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
	<Document>
		<name>Season 2 tracker</name>
		<Folder>
			<name>Round 5: Wellington</name>
			<Placemark>
				<name>Target</name>
				<Point><coordinates>174.7762,-41.2865,0</coordinates></Point>
			</Placemark>
			<Placemark>
				<name>alice</name>
				<description>Cable car</description>
				<styleUrl>#icon-1899-FBC02D</styleUrl>
				<Point><coordinates>174.78,-41.29,0</coordinates></Point>
			</Placemark>
			<Placemark>
				<name>bob</name>
				<Point><coordinates>170.5,-45.87,0</coordinates></Point>
			</Placemark>
		</Folder>
		<Folder>
			<name>Round 6: Lisbon</name>
			<Placemark>
				<name>Target</name>
				<Point><coordinates>-9.1393,38.7223,0</coordinates></Point>
			</Placemark>
			<Placemark>
				<name>alice</name>
				<Point><coordinates>-9.14,38.72,0</coordinates></Point>
			</Placemark>
		</Folder>
	</Document>
</kml>`

func TestLoadTracker(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.kml")
	require.NoError(t, os.WriteFile(path, []byte(trackerKML), 0o644))

	rounds, err := LoadTracker(path, 5, false)
	require.NoError(t, err)
	require.Len(t, rounds, 2)

	first := rounds[0]
	assert.Equal(t, "Round 5: Wellington", first.Name)
	assert.Equal(t, 5, first.Number)
	assert.InDelta(t, -41.2865, first.Latitude, 1e-9)
	assert.InDelta(t, 174.7762, first.Longitude, 1e-9)
	require.Len(t, first.Submissions, 2)
	assert.Equal(t, "alice", first.Submissions[0].Name)
	assert.Equal(t, "Cable car", first.Submissions[0].Description)
	assert.Equal(t, "#icon-1899-FBC02D", first.Submissions[0].Extra["style"])
	assert.False(t, first.IsScored())

	assert.Equal(t, 6, rounds[1].Number)
	assert.Len(t, rounds[1].Submissions, 1)
}

func TestLoadTrackerAntipodeMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.kml")
	require.NoError(t, os.WriteFile(path, []byte(trackerKML), 0o644))

	// In antipode mode the second placemark of each folder is the
	// antipode marker, not a submission.
	rounds, err := LoadTracker(path, 1, true)
	require.NoError(t, err)
	require.Len(t, rounds[0].Submissions, 1)
	assert.Equal(t, "bob", rounds[0].Submissions[0].Name)
	assert.Empty(t, rounds[1].Submissions)
}

func TestLoadTrackersContinuesNumbering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.kml")
	b := filepath.Join(dir, "b.kml")
	require.NoError(t, os.WriteFile(a, []byte(trackerKML), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(trackerKML), 0o644))

	rounds, err := LoadTrackers([]string{a, b}, 1, false)
	require.NoError(t, err)
	require.Len(t, rounds, 4)
	for i, r := range rounds {
		assert.Equal(t, i+1, r.Number)
	}
}

func TestLoadShapefileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadShapefile(filepath.Join(t.TempDir(), "nope.shp"), "alice")
	assert.Error(t, err)
}
