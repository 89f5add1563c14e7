package domain

import (
	"errors"
	"fmt"
)

// Represents one depot-to-depot trip of a single truck.
// Stops lists customer indices in visiting order. Overloaded marks a trip
// whose single customer demands more than the capacity.
type RoutePlan struct {
	TruckID    int
	Stops      []int
	Load       int
	Distance   float64
	Overloaded bool
}

// Path returns the drawn polyline of the trip including both depot ends.
func (p RoutePlan) Path(inst *ProblemInstance) []Coordinates {
	path := make([]Coordinates, 0, len(p.Stops)+2)
	path = append(path, inst.Depot)
	for _, idx := range p.Stops {
		path = append(path, inst.Customers[idx].Location)
	}
	return append(path, inst.Depot)
}

// SplitRoutes cuts a visiting order into trips the same way the fitness
// evaluator does: the running load includes the next customer, and when it
// exceeds the capacity the current truck returns to the depot and a fresh one
// starts with that customer. A depot return is drawn wherever this split occurs.
func SplitRoutes(inst *ProblemInstance, order []int) ([]RoutePlan, error) {
	if inst == nil {
		return nil, errors.New("split routes: instance must be non-nil")
	}
	if len(order) == 0 {
		return []RoutePlan{}, nil
	}

	truck := NewTruck(1, inst.Capacity)
	plans := make([]RoutePlan, 0, 4)

	closeTrip := func() {
		plan := RoutePlan{
			TruckID:    truck.TruckID,
			Stops:      append([]int(nil), truck.Stops...),
			Load:       truck.Loaded,
			Overloaded: truck.Overloaded(),
		}
		plan.Distance = tripDistance(inst, plan.Stops)
		plans = append(plans, plan)
	}

	for _, idx := range order {
		if idx < 0 || idx >= inst.Size() {
			return nil, fmt.Errorf("split routes: customer index %d out of range [0,%d)", idx, inst.Size())
		}
		c := inst.Customers[idx]

		err := truck.Load(c)
		if errors.Is(err, ErrTruckFull) {
			closeTrip()
			truck = NewTruck(truck.TruckID+1, inst.Capacity)
			err = truck.Load(c)
		}
		if err != nil {
			return nil, fmt.Errorf("split routes: %w", err)
		}
	}
	closeTrip()

	return plans, nil
}

// TotalDistance sums the distance of all trips.
func TotalDistance(plans []RoutePlan) float64 {
	total := 0.0
	for _, p := range plans {
		total += p.Distance
	}
	return total
}

func tripDistance(inst *ProblemInstance, stops []int) float64 {
	total := 0.0
	current := inst.Depot
	for _, idx := range stops {
		next := inst.Customers[idx].Location
		total += current.Distance(next)
		current = next
	}
	return total + current.Distance(inst.Depot)
}
