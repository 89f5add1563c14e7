package ports

import (
	"context"
	"fleet-route-optimizer/internal/domain"
)

// Contract for announcing finished runs to an external system.
type RunNotifier interface {
	Notify(ctx context.Context, run *domain.OptimizationRun) error
}
