package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/travelpics/tpg/internal/tpg"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS rounds (
	id         TEXT PRIMARY KEY,
	game       TEXT NOT NULL,
	number     INTEGER NOT NULL,
	name       TEXT NOT NULL,
	data       TEXT NOT NULL,
	batch_id   TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (game, number)
);

CREATE TABLE IF NOT EXISTS import_batches (
	id         TEXT PRIMARY KEY,
	game       TEXT NOT NULL,
	rounds     INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game);
CREATE INDEX IF NOT EXISTS idx_import_batches_game ON import_batches(game);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRounds(ctx context.Context, game string, rounds []tpg.Round) (*ImportBatch, error) {
	batch := &ImportBatch{
		ID:        uuid.New().String(),
		Game:      game,
		Rounds:    len(rounds),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	for _, r := range rounds {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: marshal round %s", r.DisplayName())
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO rounds (id, game, number, name, data, batch_id, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (game, number) DO UPDATE SET
			   name = excluded.name, data = excluded.data,
			   batch_id = excluded.batch_id, updated_at = excluded.updated_at`,
			uuid.New().String(), game, r.Number, r.DisplayName(), string(data), batch.ID, batch.CreatedAt,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: upsert round %s", r.DisplayName())
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO import_batches (id, game, rounds, created_at) VALUES (?, ?, ?, ?)`,
		batch.ID, game, batch.Rounds, batch.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert batch")
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}
	return batch, nil
}

func (s *SQLiteStore) Rounds(ctx context.Context, game string) ([]tpg.Round, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM rounds WHERE game = ? ORDER BY number ASC`,
		game,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: rounds for %s", game)
	}
	defer rows.Close()

	var out []tpg.Round
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan round")
		}
		var r tpg.Round
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal round")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: rounds iterate")
}

func (s *SQLiteStore) Games(ctx context.Context) ([]GameMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game, COUNT(*), MAX(updated_at) FROM rounds GROUP BY game ORDER BY game`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list games")
	}
	defer rows.Close()

	var games []GameMeta
	for rows.Next() {
		var g GameMeta
		if err := rows.Scan(&g.Game, &g.Rounds, &g.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan game")
		}
		games = append(games, g)
	}
	return games, eris.Wrap(rows.Err(), "sqlite: list games iterate")
}

func (s *SQLiteStore) Batches(ctx context.Context, game string) ([]ImportBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game, rounds, created_at FROM import_batches
		 WHERE game = ? ORDER BY created_at DESC`,
		game,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: batches for %s", game)
	}
	defer rows.Close()

	var batches []ImportBatch
	for rows.Next() {
		var b ImportBatch
		if err := rows.Scan(&b.ID, &b.Game, &b.Rounds, &b.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan batch")
		}
		batches = append(batches, b)
	}
	return batches, eris.Wrap(rows.Err(), "sqlite: batches iterate")
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, game string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rounds WHERE game = ?`, game)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete game %s", game)
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
