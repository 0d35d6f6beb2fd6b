package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/tpg"
)

// pgxPool is the subset of pgxpool.Pool the store uses; pgxmock
// satisfies it too.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgxPool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS rounds (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	game       TEXT NOT NULL,
	number     INTEGER NOT NULL,
	name       TEXT NOT NULL,
	data       JSONB NOT NULL,
	batch_id   TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (game, number)
);

CREATE TABLE IF NOT EXISTS import_batches (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	game       TEXT NOT NULL,
	rounds     INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game);
CREATE INDEX IF NOT EXISTS idx_import_batches_game ON import_batches(game);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRounds(ctx context.Context, game string, rounds []tpg.Round) (*ImportBatch, error) {
	batch := &ImportBatch{
		ID:        uuid.New().String(),
		Game:      game,
		Rounds:    len(rounds),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	for _, r := range rounds {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: marshal round %s", r.DisplayName())
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO rounds (id, game, number, name, data, batch_id, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (game, number) DO UPDATE SET
			   name = EXCLUDED.name, data = EXCLUDED.data,
			   batch_id = EXCLUDED.batch_id, updated_at = EXCLUDED.updated_at`,
			uuid.New().String(), game, r.Number, r.DisplayName(), data, batch.ID, batch.CreatedAt,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: upsert round %s", r.DisplayName())
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO import_batches (id, game, rounds, created_at) VALUES ($1, $2, $3, $4)`,
		batch.ID, game, batch.Rounds, batch.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert batch")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit")
	}
	return batch, nil
}

func (s *PostgresStore) Rounds(ctx context.Context, game string) ([]tpg.Round, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM rounds WHERE game = $1 ORDER BY number ASC`,
		game,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: rounds for %s", game)
	}
	defer rows.Close()

	var out []tpg.Round
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan round")
		}
		var r tpg.Round
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal round")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: rounds iterate")
}

func (s *PostgresStore) Games(ctx context.Context) ([]GameMeta, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT game, COUNT(*), MAX(updated_at) FROM rounds GROUP BY game ORDER BY game`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list games")
	}
	defer rows.Close()

	var games []GameMeta
	for rows.Next() {
		var g GameMeta
		if err := rows.Scan(&g.Game, &g.Rounds, &g.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan game")
		}
		games = append(games, g)
	}
	return games, eris.Wrap(rows.Err(), "postgres: list games iterate")
}

func (s *PostgresStore) Batches(ctx context.Context, game string) ([]ImportBatch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, game, rounds, created_at FROM import_batches
		 WHERE game = $1 ORDER BY created_at DESC`,
		game,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: batches for %s", game)
	}
	defer rows.Close()

	var batches []ImportBatch
	for rows.Next() {
		var b ImportBatch
		if err := rows.Scan(&b.ID, &b.Game, &b.Rounds, &b.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan batch")
		}
		batches = append(batches, b)
	}
	return batches, eris.Wrap(rows.Err(), "postgres: batches iterate")
}

func (s *PostgresStore) DeleteGame(ctx context.Context, game string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rounds WHERE game = $1`, game)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: delete game %s", game)
	}
	return int(tag.RowsAffected()), nil
}
