package domain

import (
	"errors"
	"fmt"
)

// ErrTruckFull is returned when a customer does not fit in a non-empty truck.
var ErrTruckFull = errors.New("truck is at full capacity")

// Delivery truck serving one trip out of the depot.
// An empty truck always accepts its first customer, even one whose demand
// alone exceeds the capacity; the trip is then overloaded but never split.
type Truck struct {
	TruckID  int
	Capacity int
	Loaded   int
	Stops    []int
}

func NewTruck(id int, capacity int) *Truck {
	return &Truck{
		TruckID:  id,
		Capacity: capacity,
	}
}

// Load a single customer onto the truck.
func (t *Truck) Load(c Customer) error {
	if len(t.Stops) > 0 && t.Loaded+c.Demand > t.Capacity {
		return fmt.Errorf(
			"load truck: truck %d cannot take customer %d (loaded=%d demand=%d capacity=%d): %w",
			t.TruckID, c.Index, t.Loaded, c.Demand, t.Capacity, ErrTruckFull,
		)
	}
	t.Loaded += c.Demand
	t.Stops = append(t.Stops, c.Index)
	return nil
}

// Overloaded reports whether the truck carries more than its capacity.
func (t *Truck) Overloaded() bool {
	return t.Loaded > t.Capacity
}
