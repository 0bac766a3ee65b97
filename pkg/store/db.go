package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool. Callers own its lifecycle: acquire with
// NewDB, pass it to stores explicitly, release with Close.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB opens and pings a connection pool for the given DSN. Failures are
// reported as ErrConnectionUnavailable so callers can degrade gracefully
// instead of aborting.
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse dsn: %w", ErrConnectionUnavailable, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect: %w", ErrConnectionUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping: %w", ErrConnectionUnavailable, err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases pool resources.
func (db *DB) Close() {
	db.Pool.Close()
}
