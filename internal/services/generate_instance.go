package services

import (
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fmt"
	"math/rand"
)

// GenerateInstanceRequest describes a random instance on an integer grid.
// Zero values take the defaults of DefaultGenerateInstanceRequest.
type GenerateInstanceRequest struct {
	Name      string
	Customers int
	Capacity  int
	MaxDemand int
	GridSize  int
	Depot     *domain.Coordinates
}

func DefaultGenerateInstanceRequest() GenerateInstanceRequest {
	return GenerateInstanceRequest{
		Name:      "random",
		Customers: 100,
		Capacity:  20,
		MaxDemand: 5,
		GridSize:  100,
		Depot:     &domain.Coordinates{X: 50, Y: 50},
	}
}

// GenerateInstance draws all demands first, then all locations, each
// coordinate uniform in [0, GridSize] and each demand uniform in [1, MaxDemand].
func GenerateInstance(rng *rand.Rand, req GenerateInstanceRequest) (*domain.ProblemInstance, error) {
	if rng == nil {
		return nil, errors.New("generate instance: random source must be non-nil")
	}

	def := DefaultGenerateInstanceRequest()
	if req.Name == "" {
		req.Name = def.Name
	}
	if req.Customers == 0 {
		req.Customers = def.Customers
	}
	if req.Capacity == 0 {
		req.Capacity = def.Capacity
	}
	if req.MaxDemand == 0 {
		req.MaxDemand = def.MaxDemand
	}
	if req.GridSize == 0 {
		req.GridSize = def.GridSize
	}
	if req.Depot == nil {
		req.Depot = def.Depot
	}

	if req.Customers < 0 || req.MaxDemand < 0 || req.GridSize < 0 {
		return nil, fmt.Errorf(
			"generate instance: customers=%d max_demand=%d grid=%d must not be negative: %w",
			req.Customers, req.MaxDemand, req.GridSize, domain.ErrInvalidInstance,
		)
	}

	demands := make([]int, req.Customers)
	for i := range demands {
		demands[i] = rng.Intn(req.MaxDemand) + 1
	}

	locations := make([]domain.Coordinates, req.Customers)
	for i := range locations {
		locations[i] = domain.Coordinates{
			X: float64(rng.Intn(req.GridSize + 1)),
			Y: float64(rng.Intn(req.GridSize + 1)),
		}
	}

	inst, err := domain.NewProblemInstance(req.Name, *req.Depot, locations, demands, req.Capacity)
	if err != nil {
		return nil, fmt.Errorf("generate instance: %w", err)
	}
	return inst, nil
}
