package repositories

import (
	"context"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ports"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository implements InstanceRepository and RunRepository in process.
// The cvrp command loads its -instances file into one.
type MemoryRepository struct {
	mu        sync.RWMutex
	instances map[string]*domain.ProblemInstance
	runs      map[string]*domain.OptimizationRun
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		instances: map[string]*domain.ProblemInstance{},
		runs:      map[string]*domain.OptimizationRun{},
	}
}

func (m *MemoryRepository) ListInstances(ctx context.Context) ([]*domain.ProblemInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.ProblemInstance, 0, len(m.instances))
	for _, inst := range m.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) GetInstance(ctx context.Context, name string) (*domain.ProblemInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, ok := m.instances[name]
	if !ok {
		return nil, fmt.Errorf("get instance %q: %w", name, ports.ErrNotFound)
	}
	return inst, nil
}

func (m *MemoryRepository) SaveInstance(ctx context.Context, inst *domain.ProblemInstance) error {
	if inst == nil || inst.Name == "" {
		return errors.New("save instance: instance must have a name")
	}
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("save instance %q: %w", inst.Name, err)
	}

	cp := *inst
	cp.Customers = append([]domain.Customer(nil), inst.Customers...)

	m.mu.Lock()
	m.instances[inst.Name] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) SaveRun(ctx context.Context, run *domain.OptimizationRun) error {
	if run == nil || run.RunID == "" {
		return errors.New("save run: run must have an id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runs[run.RunID]; !exists {
		m.runs[run.RunID] = run
	}
	return nil
}

func (m *MemoryRepository) GetRun(ctx context.Context, runID string) (*domain.OptimizationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("get run %s: %w", runID, ports.ErrNotFound)
	}
	return run, nil
}
