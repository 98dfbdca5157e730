package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PoolOptions sizes the connection pool shared by the repositories and the
// migration runner.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

func (o PoolOptions) validate() error {
	if o.MaxConns <= 0 {
		return errors.New("max connections must be positive")
	}
	if o.MinConns < 0 || o.MinConns > o.MaxConns {
		return fmt.Errorf("min connections must be between 0 and %d", o.MaxConns)
	}
	return nil
}

// DB holds the pgx pool used by the repositories and a database/sql view of
// the same pool for goose.
type DB struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

func New(ctx context.Context, databaseURL string, opts PoolOptions) (*DB, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("pool options: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		// the URL carries credentials; keep it out of the error
		return nil, errors.New("parse database URL: invalid connection string")
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected",
		"host", cfg.ConnConfig.Host,
		"database", cfg.ConnConfig.Database,
		"max_conns", opts.MaxConns,
		"min_conns", opts.MinConns,
	)
	return &DB{Pool: pool, SQL: stdlib.OpenDBFromPool(pool)}, nil
}

// Close releases the database/sql handle before the pool it borrows from.
func (db *DB) Close() {
	if db.SQL != nil {
		if err := db.SQL.Close(); err != nil {
			slog.Warn("closing sql handle", "error", err)
		}
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Health pings the store. Callers bound it with their request context.
func (db *DB) Health(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return errors.New("database pool is not initialized")
	}
	return db.Pool.Ping(ctx)
}
