package services

import (
	"errors"
	"fleet-route-optimizer/internal/domain"
	"math"
)

// NearestNeighborOrder builds a visiting order greedily: starting at the
// depot, always visit the closest unvisited customer next.
//
// It is a baseline for judging optimization runs, not an optimizer. Ties go to
// the lower customer index so the result is deterministic.
func NearestNeighborOrder(inst *domain.ProblemInstance) ([]int, error) {
	if inst == nil {
		return nil, errors.New("nearest neighbor: instance must be non-nil")
	}

	n := inst.Size()
	order := make([]int, 0, n)
	visited := make([]bool, n)
	current := inst.Depot

	for len(order) < n {
		best := -1
		minDist := math.Inf(1)

		// Select next stop by minimum travel distance (greedy step).
		for i, c := range inst.Customers {
			if visited[i] {
				continue
			}
			if d := current.Distance(c.Location); d < minDist {
				minDist = d
				best = i
			}
		}

		if best < 0 {
			return nil, errors.New("nearest neighbor: failed to select next customer")
		}

		visited[best] = true
		order = append(order, best)
		current = inst.Customers[best].Location
	}

	return order, nil
}

// BaselineDistance is the fitness of the nearest-neighbor order.
func BaselineDistance(inst *domain.ProblemInstance) (float64, error) {
	order, err := NearestNeighborOrder(inst)
	if err != nil {
		return 0, err
	}
	plans, err := domain.SplitRoutes(inst, order)
	if err != nil {
		return 0, err
	}
	return domain.TotalDistance(plans), nil
}
