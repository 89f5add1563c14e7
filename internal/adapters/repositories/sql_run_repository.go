package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/platform/obs"
	"fleet-route-optimizer/internal/ports"
	"fmt"
	"time"
)

// SQL-backed implementation of the RunRepository port.
// Orders and history are stored as JSON text.
type SQLRunRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRunRepository(db *sql.DB, dialect Dialect) *SQLRunRepository {
	return &SQLRunRepository{DB: db, Dialect: dialect}
}

type historyRow struct {
	Generation  int     `json:"g"`
	BestFitness float64 `json:"b"`
	MinFitness  float64 `json:"m"`
	MeanFitness float64 `json:"a"`
	Best        []int   `json:"o"`
}

func (s *SQLRunRepository) SaveRun(ctx context.Context, run *domain.OptimizationRun) (err error) {
	defer obs.Time(ctx, "runs.Save")(&err)

	if s.DB == nil {
		return errors.New("run repository: DB is nil")
	}
	if run == nil || run.RunID == "" {
		return errors.New("save run: run must have an id")
	}

	order, err := json.Marshal(run.BestOrder)
	if err != nil {
		return fmt.Errorf("save run %s: encode best order: %w", run.RunID, err)
	}

	rows := make([]historyRow, len(run.History))
	for i, h := range run.History {
		rows[i] = historyRow(h)
	}
	history, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("save run %s: encode history: %w", run.RunID, err)
	}

	_, err = s.DB.ExecContext(ctx, s.Dialect.rebind(`
	INSERT INTO runs (
		run_id,
		instance_name,
		fingerprint,
		instance_fingerprint,
		seed,
		population_size,
		generations,
		best_order,
		best_distance,
		evaluations,
		duration_ms,
		created_at,
		history
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (run_id) DO NOTHING;
	`),
		run.RunID,
		run.InstanceName,
		run.Fingerprint,
		run.InstanceFingerprint,
		run.Seed,
		run.PopulationSize,
		run.Generations,
		string(order),
		run.BestDistance,
		run.Evaluations,
		run.Duration.Milliseconds(),
		run.CreatedAt.UnixMilli(),
		string(history),
	)
	if err != nil {
		return fmt.Errorf("save run %s: insert: %w", run.RunID, err)
	}

	return nil
}

func (s *SQLRunRepository) GetRun(ctx context.Context, runID string) (*domain.OptimizationRun, error) {
	if s.DB == nil {
		return nil, errors.New("run repository: DB is nil")
	}

	var (
		run        domain.OptimizationRun
		order      string
		history    string
		durationMs int64
		createdAt  int64
	)
	row := s.DB.QueryRowContext(ctx, s.Dialect.rebind(`
	SELECT
		run_id,
		instance_name,
		fingerprint,
		instance_fingerprint,
		seed,
		population_size,
		generations,
		best_order,
		best_distance,
		evaluations,
		duration_ms,
		created_at,
		history
	FROM runs
	WHERE run_id = ?;
	`), runID)

	err := row.Scan(
		&run.RunID,
		&run.InstanceName,
		&run.Fingerprint,
		&run.InstanceFingerprint,
		&run.Seed,
		&run.PopulationSize,
		&run.Generations,
		&order,
		&run.BestDistance,
		&run.Evaluations,
		&durationMs,
		&createdAt,
		&history,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get run %s: %w", runID, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get run %s: scan: %w", runID, err)
	}

	if err := json.Unmarshal([]byte(order), &run.BestOrder); err != nil {
		return nil, fmt.Errorf("get run %s: decode best order: %w", runID, err)
	}

	var rows []historyRow
	if err := json.Unmarshal([]byte(history), &rows); err != nil {
		return nil, fmt.Errorf("get run %s: decode history: %w", runID, err)
	}
	run.History = make([]domain.GenerationRecord, len(rows))
	for i, r := range rows {
		run.History[i] = domain.GenerationRecord(r)
	}

	run.Duration = time.Duration(durationMs) * time.Millisecond
	run.CreatedAt = time.UnixMilli(createdAt).UTC()

	return &run, nil
}

// LatestRunID returns the id of the newest run with the given fingerprint,
// or ErrNotFound.
func (s *SQLRunRepository) LatestRunID(ctx context.Context, fingerprint string) (string, error) {
	if s.DB == nil {
		return "", errors.New("run repository: DB is nil")
	}

	var runID string
	err := s.DB.QueryRowContext(ctx, s.Dialect.rebind(`
	SELECT run_id
	FROM runs
	WHERE fingerprint = ?
	ORDER BY created_at DESC
	LIMIT 1;
	`), fingerprint).Scan(&runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("latest run %s: %w", fingerprint, ports.ErrNotFound)
		}
		return "", fmt.Errorf("latest run %s: %w", fingerprint, err)
	}
	return runID, nil
}
