package repositories

import (
	"context"
	"database/sql"
	"fleet-route-optimizer/internal/platform/db"
	"fmt"
	"strings"
)

// Store bundles a database handle with the repositories built on it.
type Store struct {
	DB        *sql.DB
	Dialect   Dialect
	Instances *SQLInstanceRepository
	Runs      *SQLRunRepository
}

// OpenStore connects to Postgres when databaseURL is set and to the SQLite
// file at dbPath otherwise, then initializes the schema.
func OpenStore(ctx context.Context, databaseURL, dbPath string) (*Store, error) {
	var (
		conn    *sql.DB
		dialect Dialect
		err     error
	)
	if strings.TrimSpace(databaseURL) != "" {
		conn, err = db.Open(databaseURL)
		dialect = Postgres
	} else {
		conn, err = db.OpenSQLite(dbPath)
		dialect = SQLite
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Store{
		DB:        conn,
		Dialect:   dialect,
		Instances: NewSQLInstanceRepository(conn, dialect),
		Runs:      NewSQLRunRepository(conn, dialect),
	}, nil
}

func (s *Store) Close() error { return s.DB.Close() }
