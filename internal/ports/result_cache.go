package ports

import (
	"context"
	"fleet-route-optimizer/internal/domain"
)

// Runs are deterministic for a given instance, configuration and seed, so a
// finished run can be served again by its fingerprint.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.OptimizationRun, bool, error)
	Put(ctx context.Context, fingerprint string, run *domain.OptimizationRun) error
}
