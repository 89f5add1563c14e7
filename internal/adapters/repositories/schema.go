package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema. The statements are valid for both SQLite
// and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createInstancesQuery := `
	CREATE TABLE IF NOT EXISTS instances (
		name TEXT PRIMARY KEY,
		depot_x DOUBLE PRECISION NOT NULL,
		depot_y DOUBLE PRECISION NOT NULL,
		capacity INTEGER NOT NULL
	);
	`

	createCustomersQuery := `
	CREATE TABLE IF NOT EXISTS customers (
		instance_name TEXT NOT NULL REFERENCES instances(name) ON DELETE CASCADE,
		customer_index INTEGER NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		demand INTEGER NOT NULL,
		PRIMARY KEY (instance_name, customer_index)
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		instance_name TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		instance_fingerprint TEXT NOT NULL DEFAULT '',
		seed BIGINT NOT NULL,
		population_size INTEGER NOT NULL,
		generations INTEGER NOT NULL,
		best_order TEXT NOT NULL,
		best_distance DOUBLE PRECISION NOT NULL,
		evaluations INTEGER NOT NULL,
		duration_ms BIGINT NOT NULL,
		created_at BIGINT NOT NULL,
		history TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_instance_created
	ON runs(instance_name, created_at);
	`

	createFingerprintIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint
	ON runs(fingerprint);
	`

	statements := []string{
		createInstancesQuery,
		createCustomersQuery,
		createRunsQuery,
		createIndexQuery,
		createFingerprintIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
