// Package store archives scored rounds per game, so leaderboards and
// comparisons can run without refetching or re-reading round files.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/tpg"
)

// ImportBatch records one SaveRounds call.
type ImportBatch struct {
	ID        string    `json:"id"`
	Game      string    `json:"game"`
	Rounds    int       `json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
}

// GameMeta summarizes one archived game.
type GameMeta struct {
	Game      string    `json:"game"`
	Rounds    int       `json:"rounds"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence interface for the round archive. Rounds are
// keyed by (game, round number); re-importing a round replaces it.
type Store interface {
	// SaveRounds upserts a set of rounds under a game name and records
	// the import as a batch.
	SaveRounds(ctx context.Context, game string, rounds []tpg.Round) (*ImportBatch, error)
	// Rounds returns a game's archived rounds ordered by round number.
	Rounds(ctx context.Context, game string) ([]tpg.Round, error)
	// Games lists every archived game.
	Games(ctx context.Context) ([]GameMeta, error)
	// Batches lists a game's import history, newest first.
	Batches(ctx context.Context, game string) ([]ImportBatch, error)
	// DeleteGame removes a game's rounds, returning how many went.
	DeleteGame(ctx context.Context, game string) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver: "sqlite" with a
// file path DSN, or "postgres" with a connection string.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
