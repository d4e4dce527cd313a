package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internalSwapPool/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	pool_id      TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	currency0    TEXT NOT NULL,
	currency1    TEXT NOT NULL,
	fee          INTEGER NOT NULL,
	tick_spacing INTEGER NOT NULL,
	hooks        TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS pool_fees (
	pool_id    TEXT PRIMARY KEY,
	amount0    NUMERIC(78, 0) NOT NULL CHECK (amount0 >= 0),
	amount1    NUMERIC(78, 0) NOT NULL CHECK (amount1 >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for the fee ledger and pool registry.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertPools inserts or updates pool keys.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				pool_id, name, currency0, currency1, fee, tick_spacing, hooks, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (pool_id)
			DO UPDATE SET
				name = EXCLUDED.name,
				updated_at = now()
		`,
			pool.ID,
			pool.Name,
			pool.Currency0,
			pool.Currency1,
			int64(pool.Fee),
			int64(pool.TickSpacing),
			pool.Hooks,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadFees returns every ledger entry.
func (s *Store) LoadFees(ctx context.Context) ([]model.FeeEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pool_id, amount0::text, amount1::text, updated_at
		FROM pool_fees
		ORDER BY pool_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.FeeEntry
	for rows.Next() {
		var (
			entry     model.FeeEntry
			updatedAt time.Time
		)
		if err := rows.Scan(&entry.PoolID, &entry.Amount0, &entry.Amount1, &updatedAt); err != nil {
			return nil, err
		}
		entry.UpdatedAt = updatedAt.UTC().Format(time.RFC3339Nano)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveFees upserts ledger entries by pool id.
func (s *Store) SaveFees(ctx context.Context, entries []model.FeeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(`
			INSERT INTO pool_fees (pool_id, amount0, amount1, updated_at)
			VALUES ($1, $2::text::numeric, $3::text::numeric, now())
			ON CONFLICT (pool_id)
			DO UPDATE SET
				amount0 = EXCLUDED.amount0,
				amount1 = EXCLUDED.amount1,
				updated_at = now()
		`,
			entry.PoolID,
			zeroIfEmpty(entry.Amount0),
			zeroIfEmpty(entry.Amount1),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func zeroIfEmpty(value string) string {
	if value == "" {
		return "0"
	}
	return value
}
