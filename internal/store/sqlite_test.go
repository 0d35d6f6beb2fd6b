package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelpics/tpg/internal/tpg"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "tpg.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRounds() []tpg.Round {
	return []tpg.Round{
		{
			Name: "Sydney", Number: 2, Latitude: -33.87, Longitude: 151.21,
			Submissions: []tpg.Submission{
				{Name: "alice", Latitude: -37.81, Longitude: 144.96, Score: tpg.Float64(8000), Rank: tpg.Int(1), Distance: tpg.Float64(713e3)},
			},
		},
		{
			Name: "Reykjavik", Number: 1, Latitude: 64.15, Longitude: -21.94,
			Submissions: []tpg.Submission{
				{Name: "alice", Latitude: 64.0, Longitude: -22.0, Score: tpg.Float64(9500), Rank: tpg.Int(1), Distance: tpg.Float64(17e3)},
				{Name: "bob", Latitude: 51.5, Longitude: -0.1, Score: tpg.Float64(6000), Rank: tpg.Int(2), Distance: tpg.Float64(1890e3)},
			},
		},
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	batch, err := s.SaveRounds(ctx, "main", testRounds())
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, 2, batch.Rounds)
	assert.NotEmpty(t, batch.ID)

	got, err := s.Rounds(ctx, "main")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Archived rounds come back ordered by round number.
	assert.Equal(t, "Reykjavik", got[0].Name)
	assert.Equal(t, "Sydney", got[1].Name)
	require.Len(t, got[0].Submissions, 2)
	assert.Equal(t, 9500.0, *got[0].Submissions[0].Score)
}

func TestSQLiteStoreUpsertReplacesRound(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.SaveRounds(ctx, "main", testRounds())
	require.NoError(t, err)

	updated := testRounds()[1]
	updated.Name = "Reykjavik (rescored)"
	_, err = s.SaveRounds(ctx, "main", []tpg.Round{updated})
	require.NoError(t, err)

	got, err := s.Rounds(ctx, "main")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Reykjavik (rescored)", got[0].Name)

	batches, err := s.Batches(ctx, "main")
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestSQLiteStoreGames(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.SaveRounds(ctx, "main", testRounds())
	require.NoError(t, err)
	_, err = s.SaveRounds(ctx, "oceania", testRounds()[:1])
	require.NoError(t, err)

	games, err := s.Games(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "main", games[0].Game)
	assert.Equal(t, 2, games[0].Rounds)
	assert.Equal(t, "oceania", games[1].Game)
	assert.Equal(t, 1, games[1].Rounds)
}

func TestSQLiteStoreDeleteGame(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.SaveRounds(ctx, "main", testRounds())
	require.NoError(t, err)

	n, err := s.DeleteGame(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.Rounds(ctx, "main")
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err = s.DeleteGame(ctx, "main")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)
}
