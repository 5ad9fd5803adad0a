// Package db provides PostgreSQL access for the persistent metadata cache.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema creates the metadata cache table. Safe to run on every start.
// Rows are keyed by link and the selector pair that produced them, so a
// selector change never serves metadata read with the old markup rules.
const schema = `
CREATE TABLE IF NOT EXISTS problem_metadata (
    link                TEXT NOT NULL,
    difficulty_selector TEXT NOT NULL,
    topic_selector      TEXT NOT NULL,
    difficulty          TEXT NOT NULL,
    topic               TEXT NOT NULL,
    fetched_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (link, difficulty_selector, topic_selector)
)`

// EnsureSchema creates the tables used by the metadata cache if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
