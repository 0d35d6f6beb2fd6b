package tpg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRounds() []Round {
	return []Round{
		{
			Name:        "Somewhere in Portugal",
			Number:      1,
			Season:      Int(3),
			CountryCode: "PT",
			Latitude:    38.7223,
			Longitude:   -9.1393,
			Submissions: []Submission{
				{
					Name: "alice", Latitude: 38.72, Longitude: -9.14,
					Description: "Lisbon tram",
					IsFiveK:     Bool(true),
					Score:       Float64(5000), Rank: Int(1), Distance: Float64(250.5),
					Extra: map[string]string{"discord_id": "123456"},
				},
				{
					Name: "bob", Latitude: 40.4168, Longitude: -3.7038,
					Score: Float64(3751.22), Rank: Int(2), Distance: Float64(502_811),
				},
			},
		},
		{
			// Unscored round with every optional field absent.
			Number:    2,
			Latitude:  -41.2865,
			Longitude: 174.7762,
			Submissions: []Submission{
				{Name: "alice", Latitude: -41.3, Longitude: 174.8},
			},
		},
	}
}

func TestRoundsJSONRoundTrip(t *testing.T) {
	t.Parallel()

	rounds := sampleRounds()
	path := filepath.Join(t.TempDir(), "rounds.json")
	require.NoError(t, SaveRounds(path, rounds))

	loaded, err := LoadRounds(path)
	require.NoError(t, err)
	if diff := cmp.Diff(rounds, loaded); diff != "" {
		t.Errorf("rounds changed across save/load (-want +got):\n%s", diff)
	}
}

func TestSavedJSONOmitsNulls(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rounds.json")
	require.NoError(t, SaveRounds(path, sampleRounds()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}

func TestLoadRoundsGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rounds := sampleRounds()
	require.NoError(t, SaveRounds(filepath.Join(dir, "b.json"), rounds[1:]))
	require.NoError(t, SaveRounds(filepath.Join(dir, "a.json"), rounds[:1]))

	merged, err := LoadRoundsGlob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	// Filename order, not creation order.
	require.Len(t, merged, 2)
	assert.Equal(t, 1, merged[0].Number)
	assert.Equal(t, 2, merged[1].Number)

	_, err = LoadRoundsGlob(filepath.Join(dir, "*.geojson"))
	assert.Error(t, err)
}

func TestIsScored(t *testing.T) {
	t.Parallel()

	rounds := sampleRounds()
	assert.True(t, rounds[0].IsScored())
	assert.False(t, rounds[1].IsScored())
	assert.True(t, Round{Number: 3}.IsScored(), "empty round counts as scored")
}

func TestFindPlayer(t *testing.T) {
	t.Parallel()

	r := sampleRounds()[0]
	sub := r.FindPlayer("bob")
	require.NotNil(t, sub)
	assert.Equal(t, "bob", sub.Name)

	assert.Nil(t, r.FindPlayer("Bob"), "lookup is case-sensitive")
	assert.Nil(t, r.FindPlayer("carol"))
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Somewhere in Portugal", sampleRounds()[0].DisplayName())
	assert.Equal(t, "Round 2", sampleRounds()[1].DisplayName())
}

func TestAntipode(t *testing.T) {
	t.Parallel()

	anti := Coordinate{Lat: -33.8688, Lng: 151.2093}.Antipode()
	assert.InDelta(t, 33.8688, anti.Lat, 1e-9)
	assert.InDelta(t, -28.7907, anti.Lng, 1e-9)

	anti = Coordinate{Lat: 10, Lng: -70}.Antipode()
	assert.InDelta(t, -10.0, anti.Lat, 1e-9)
	assert.InDelta(t, 110.0, anti.Lng, 1e-9)
}
