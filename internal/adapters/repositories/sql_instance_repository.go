package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/platform/obs"
	"fleet-route-optimizer/internal/ports"
	"fmt"
	"strings"
)

// SQL-backed implementation of the InstanceRepository port.
type SQLInstanceRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLInstanceRepository(db *sql.DB, dialect Dialect) *SQLInstanceRepository {
	return &SQLInstanceRepository{DB: db, Dialect: dialect}
}

// Return all instances stored in the database, ordered by name.
func (s *SQLInstanceRepository) ListInstances(ctx context.Context) (_ []*domain.ProblemInstance, err error) {
	defer obs.Time(ctx, "instances.List")(&err)

	if s.DB == nil {
		return nil, errors.New("instance repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT name
	FROM instances
	ORDER BY name;
	`)
	if err != nil {
		return nil, fmt.Errorf("list instances: query instances table: %w", err)
	}

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("list instances: scan row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list instances: row iteration: %w", err)
	}
	rows.Close()

	out := make([]*domain.ProblemInstance, 0, len(names))
	for _, name := range names {
		inst, err := s.GetInstance(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("list instances: %w", err)
		}
		out = append(out, inst)
	}

	return out, nil
}

// Return one instance with its customers in index order.
func (s *SQLInstanceRepository) GetInstance(ctx context.Context, name string) (*domain.ProblemInstance, error) {
	if s.DB == nil {
		return nil, errors.New("instance repository: DB is nil")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("get instance: name must not be empty")
	}

	inst := &domain.ProblemInstance{Name: name}
	row := s.DB.QueryRowContext(ctx, s.Dialect.rebind(`
	SELECT depot_x, depot_y, capacity
	FROM instances
	WHERE name = ?;
	`), name)
	if err := row.Scan(&inst.Depot.X, &inst.Depot.Y, &inst.Capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get instance %q: %w", name, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get instance %q: scan: %w", name, err)
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.rebind(`
	SELECT customer_index, x, y, demand
	FROM customers
	WHERE instance_name = ?
	ORDER BY customer_index;
	`), name)
	if err != nil {
		return nil, fmt.Errorf("get instance %q: query customers table: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.Index, &c.Location.X, &c.Location.Y, &c.Demand); err != nil {
			return nil, fmt.Errorf("get instance %q: scan customer: %w", name, err)
		}
		inst.Customers = append(inst.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get instance %q: row iteration: %w", name, err)
	}

	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("get instance %q: stored data: %w", name, err)
	}

	return inst, nil
}

// Insert or replace an instance and all of its customers in one transaction.
func (s *SQLInstanceRepository) SaveInstance(ctx context.Context, inst *domain.ProblemInstance) (err error) {
	defer obs.Time(ctx, "instances.Save")(&err)

	if s.DB == nil {
		return errors.New("instance repository: DB is nil")
	}
	if inst == nil || strings.TrimSpace(inst.Name) == "" {
		return errors.New("save instance: instance must have a name")
	}
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("save instance %q: %w", inst.Name, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save instance: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.Dialect.rebind(`
	INSERT INTO instances (name, depot_x, depot_y, capacity)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE
	SET depot_x = EXCLUDED.depot_x,
		depot_y = EXCLUDED.depot_y,
		capacity = EXCLUDED.capacity;
	`), inst.Name, inst.Depot.X, inst.Depot.Y, inst.Capacity); err != nil {
		return fmt.Errorf("save instance %q: upsert: %w", inst.Name, err)
	}

	if _, err := tx.ExecContext(ctx, s.Dialect.rebind(`
	DELETE FROM customers WHERE instance_name = ?;
	`), inst.Name); err != nil {
		return fmt.Errorf("save instance %q: clear customers: %w", inst.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(`
	INSERT INTO customers (instance_name, customer_index, x, y, demand)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save instance %q: prepare insert: %w", inst.Name, err)
	}
	defer stmt.Close()

	for _, c := range inst.Customers {
		if _, err := stmt.ExecContext(ctx, inst.Name, c.Index, c.Location.X, c.Location.Y, c.Demand); err != nil {
			return fmt.Errorf("save instance %q: insert customer %d: %w", inst.Name, c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save instance %q: commit tx: %w", inst.Name, err)
	}

	return nil
}
