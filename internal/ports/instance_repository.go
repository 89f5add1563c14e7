package ports

import (
	"context"
	"errors"
	"fleet-route-optimizer/internal/domain"
)

// ErrNotFound is returned by repositories when a lookup key is unknown.
var ErrNotFound = errors.New("not found")

// Port: a boundary for storing and retrieving problem instances.
type InstanceRepository interface {
	// Retrieve all stored instances, ordered by name.
	ListInstances(ctx context.Context) ([]*domain.ProblemInstance, error)
	// Retrieve one instance by name, or ErrNotFound.
	GetInstance(ctx context.Context, name string) (*domain.ProblemInstance, error)
	// Insert or replace an instance under its name.
	SaveInstance(ctx context.Context, inst *domain.ProblemInstance) error
}
