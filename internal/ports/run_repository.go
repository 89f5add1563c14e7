package ports

import (
	"context"
	"fleet-route-optimizer/internal/domain"
)

// Port: persistence for finished optimization runs and their snapshot history.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.OptimizationRun) error
	// Retrieve one run with its full history, or ErrNotFound.
	GetRun(ctx context.Context, runID string) (*domain.OptimizationRun, error)
}
