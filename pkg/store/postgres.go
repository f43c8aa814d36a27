// Package store opens the long-lived connection pools internal/app
// wires into the repository adapters: Postgres for the operational
// Booking/Inventory Store and Mongo for the archive (the Redis client
// for the L2 availability cache is created in internal/app). Grounded on the teacher's pkg/store/sql.go
// and pkg/store/mongodb.go connection-pool shape (dsn parsing,
// pool-size tuning, ping-on-connect), generalized from the teacher's
// package-level defaultMaxOpenConns constant to a caller-supplied pool
// size (config.StoreConfig.MaxOpenConns/MaxIdleConns) since this
// module's config already exposes those as overridable settings.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgres dials dsn and returns a ready, pinged connection pool.
func NewPostgres(ctx context.Context, dsn string, maxOpenConns, maxIdleConns int) (*pgxpool.Pool, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("store: empty postgres dsn")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse postgres dsn: %w", err)
	}

	cfg.MaxConns = int32(maxOpenConns)
	cfg.MinConns = int32(maxIdleConns)
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	return pool, nil
}
