package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelpics/tpg/internal/scoring"
	"github.com/travelpics/tpg/internal/tpg"
)

func scoredRound(number int, distancesKm map[string]float64) tpg.Round {
	r := tpg.Round{Number: number, Latitude: 0, Longitude: 0}
	// Deterministic submission order: alphabetical.
	names := make([]string, 0, len(distancesKm))
	for name := range distancesKm {
		names = append(names, name)
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}
	for _, name := range names {
		r.Submissions = append(r.Submissions, tpg.Submission{
			Name:     name,
			Distance: tpg.Float64(distancesKm[name] * 1_000),
		})
	}
	return scoring.ScoreRound(r, scoring.Default(), scoring.DefaultFiveKThresholdKm, true)
}

func TestBuildPoints(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{
		scoredRound(1, map[string]float64{"alice": 10, "bob": 5000, "carol": 200}),
		scoredRound(2, map[string]float64{"alice": 40, "carol": 9000}),
	}
	points, _, _, err := Build(rounds)
	require.NoError(t, err)

	require.Equal(t, []string{"Round 1", "Round 2"}, points.Rounds)
	require.Len(t, points.Rows, 3)
	// alice won both rounds, so she leads the board.
	assert.Equal(t, "alice", points.Rows[0].Player)
	assert.Len(t, points.Rows[0].Cells, 2)

	// bob skipped round 2: one cell, total unaffected by the absence.
	var bob Row
	for _, row := range points.Rows {
		if row.Player == "bob" {
			bob = row
		}
	}
	assert.Len(t, bob.Cells, 1)
	assert.Equal(t, bob.Cells["Round 1"], bob.Total)
	assert.Equal(t, bob.Total, bob.Average)
	assert.Zero(t, bob.Stdev)

	// Totals are ordered descending.
	for i := 1; i < len(points.Rows); i++ {
		assert.GreaterOrEqual(t, points.Rows[i-1].Total, points.Rows[i].Total)
	}
}

// The sum of every row's Total equals the sum of all scores fed in.
func TestPointsTotalsConsistency(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{
		scoredRound(1, map[string]float64{"alice": 10, "bob": 5000}),
		scoredRound(2, map[string]float64{"alice": 40, "carol": 9000, "bob": 1}),
		scoredRound(3, map[string]float64{"carol": 77}),
	}
	points, _, _, err := Build(rounds)
	require.NoError(t, err)

	var sumTotals, sumScores float64
	for _, row := range points.Rows {
		sumTotals += row.Total
	}
	for _, r := range rounds {
		for _, sub := range r.Submissions {
			sumScores += *sub.Score
		}
	}
	assert.InDelta(t, sumScores, sumTotals, 1e-9)
}

func TestBuildDistanceDropsPartTimers(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{
		scoredRound(1, map[string]float64{"alice": 10, "bob": 5000}),
		scoredRound(2, map[string]float64{"alice": 40}),
	}
	_, distance, _, err := Build(rounds)
	require.NoError(t, err)

	// bob missed round 2 and is dropped from the distance board entirely.
	require.Len(t, distance.Rows, 1)
	assert.Equal(t, "alice", distance.Rows[0].Player)
	assert.InDelta(t, 50, distance.Rows[0].Total, 1e-9)
	// Cells are km, not metres.
	assert.InDelta(t, 10, distance.Rows[0].Cells["Round 1"], 1e-9)
}

func TestBuildDistanceSortsAscending(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{
		scoredRound(1, map[string]float64{"near": 1, "far": 8000}),
		scoredRound(2, map[string]float64{"near": 2, "far": 6000}),
	}
	_, distance, _, err := Build(rounds)
	require.NoError(t, err)
	require.Len(t, distance.Rows, 2)
	assert.Equal(t, "near", distance.Rows[0].Player)
}

func TestBuildMedals(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{
		scoredRound(1, map[string]float64{"alice": 1, "bob": 2, "carol": 3, "dan": 4}),
		scoredRound(2, map[string]float64{"alice": 1, "bob": 2, "carol": 3, "dan": 4}),
		scoredRound(3, map[string]float64{"bob": 1, "alice": 2, "carol": 3, "dan": 4}),
	}
	_, _, medals, err := Build(rounds)
	require.NoError(t, err)

	require.Len(t, medals, 3, "dan never reached the podium")
	assert.Equal(t, MedalRow{Player: "alice", Gold: 2, Silver: 1, Bronze: 0, Score: 8}, medals[0])
	assert.Equal(t, MedalRow{Player: "bob", Gold: 1, Silver: 2, Bronze: 0, Score: 7}, medals[1])
	assert.Equal(t, MedalRow{Player: "carol", Gold: 0, Silver: 0, Bronze: 3, Score: 3}, medals[2])
}

// Two players tied to the metre: ordinal ranking means exactly one Gold
// is awarded per round, the other tied player taking Silver.
func TestBuildMedalsExactTie(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{
		scoredRound(1, map[string]float64{"alice": 500, "bob": 500}),
	}
	_, _, medals, err := Build(rounds)
	require.NoError(t, err)

	var golds, silvers int
	for _, m := range medals {
		golds += m.Gold
		silvers += m.Silver
	}
	assert.Equal(t, 1, golds)
	assert.Equal(t, 1, silvers)
}

func TestBuildRejectsUnscored(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{{
		Number: 1,
		Submissions: []tpg.Submission{
			{Name: "alice", Latitude: 1, Longitude: 1},
		},
	}}
	_, _, _, err := Build(rounds)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotScored)
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	points, distance, medals, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, points.Rows)
	assert.Empty(t, distance.Rows)
	assert.Empty(t, medals)
}
