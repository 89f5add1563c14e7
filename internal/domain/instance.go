package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInstance marks problem data that cannot be optimized at all.
	ErrInvalidInstance = errors.New("invalid problem instance")

	// ErrDemandExceedsCapacity is only reported by ValidateStrict.
	// The default validation accepts such customers and the evaluator serves
	// them as an overloaded single-customer leg.
	ErrDemandExceedsCapacity = errors.New("customer demand exceeds vehicle capacity")
)

// ProblemInstance is the immutable input of an optimization run:
// one depot, an ordered set of customers and a uniform vehicle capacity.
type ProblemInstance struct {
	Name      string
	Depot     Coordinates
	Customers []Customer
	Capacity  int
}

// NewProblemInstance builds customers 0..N-1 from parallel location and demand
// lists and validates the result.
func NewProblemInstance(
	name string,
	depot Coordinates,
	locations []Coordinates,
	demands []int,
	capacity int,
) (*ProblemInstance, error) {
	if len(locations) != len(demands) {
		return nil, fmt.Errorf(
			"new instance: %d locations but %d demands: %w",
			len(locations), len(demands), ErrInvalidInstance,
		)
	}

	customers := make([]Customer, len(locations))
	for i := range locations {
		customers[i] = Customer{Index: i, Location: locations[i], Demand: demands[i]}
	}

	inst := &ProblemInstance{
		Name:      name,
		Depot:     depot,
		Customers: customers,
		Capacity:  capacity,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Validate checks structural soundness. A demand larger than the capacity is
// accepted on purpose; use ValidateStrict to reject it.
func (inst *ProblemInstance) Validate() error {
	if inst == nil {
		return fmt.Errorf("validate instance: instance is nil: %w", ErrInvalidInstance)
	}
	if inst.Capacity <= 0 {
		return fmt.Errorf("validate instance: capacity must be > 0 (got %d): %w", inst.Capacity, ErrInvalidInstance)
	}
	for i, c := range inst.Customers {
		if c.Index != i {
			return fmt.Errorf("validate instance: customer at position %d has index %d: %w", i, c.Index, ErrInvalidInstance)
		}
		if c.Demand <= 0 {
			return fmt.Errorf("validate instance: customer %d demand must be > 0 (got %d): %w", i, c.Demand, ErrInvalidInstance)
		}
	}
	return nil
}

// ValidateStrict runs Validate and additionally rejects customers that no
// single vehicle can carry.
func (inst *ProblemInstance) ValidateStrict() error {
	if err := inst.Validate(); err != nil {
		return err
	}
	for _, c := range inst.Customers {
		if c.Demand > inst.Capacity {
			return fmt.Errorf(
				"validate instance: customer %d demand %d > capacity %d: %w",
				c.Index, c.Demand, inst.Capacity, ErrDemandExceedsCapacity,
			)
		}
	}
	return nil
}

// Size returns the number of customers.
func (inst *ProblemInstance) Size() int { return len(inst.Customers) }

// Locations returns customer locations in index order.
func (inst *ProblemInstance) Locations() []Coordinates {
	out := make([]Coordinates, len(inst.Customers))
	for i, c := range inst.Customers {
		out[i] = c.Location
	}
	return out
}

// Demands returns customer demands in index order.
func (inst *ProblemInstance) Demands() []int {
	out := make([]int, len(inst.Customers))
	for i, c := range inst.Customers {
		out[i] = c.Demand
	}
	return out
}

// TotalDemand sums all customer demands.
func (inst *ProblemInstance) TotalDemand() int {
	total := 0
	for _, c := range inst.Customers {
		total += c.Demand
	}
	return total
}
