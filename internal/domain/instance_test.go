package domain

import (
	"errors"
	"testing"
)

func TestNewProblemInstance(t *testing.T) {
	locs := []Coordinates{{X: 10, Y: 0}, {X: 0, Y: 10}}
	inst, err := NewProblemInstance("two", Coordinates{}, locs, []int{1, 2}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inst.Size() != 2 {
		t.Fatalf("size = %d, want 2", inst.Size())
	}
	for i, c := range inst.Customers {
		if c.Index != i {
			t.Errorf("customer %d index = %d", i, c.Index)
		}
	}
	if inst.TotalDemand() != 3 {
		t.Fatalf("total demand = %d, want 3", inst.TotalDemand())
	}
	if got := inst.Demands(); got[1] != 2 {
		t.Fatalf("demands = %v", got)
	}
}

func TestProblemInstanceValidation(t *testing.T) {
	tests := []struct {
		name      string
		locations []Coordinates
		demands   []int
		capacity  int
	}{
		{name: "mismatched lengths", locations: []Coordinates{{}, {}}, demands: []int{1}, capacity: 5},
		{name: "zero capacity", locations: []Coordinates{{}}, demands: []int{1}, capacity: 0},
		{name: "negative capacity", locations: []Coordinates{{}}, demands: []int{1}, capacity: -3},
		{name: "zero demand", locations: []Coordinates{{}}, demands: []int{0}, capacity: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProblemInstance(tt.name, Coordinates{}, tt.locations, tt.demands, tt.capacity)
			if !errors.Is(err, ErrInvalidInstance) {
				t.Fatalf("err = %v, want ErrInvalidInstance", err)
			}
		})
	}
}

func TestDemandAboveCapacityIsAcceptedByDefault(t *testing.T) {
	inst, err := NewProblemInstance("heavy", Coordinates{}, []Coordinates{{X: 1}}, []int{9}, 5)
	if err != nil {
		t.Fatalf("default validation must accept demand > capacity: %v", err)
	}

	if err := inst.ValidateStrict(); !errors.Is(err, ErrDemandExceedsCapacity) {
		t.Fatalf("strict err = %v, want ErrDemandExceedsCapacity", err)
	}
}

func TestCoordinatesDistance(t *testing.T) {
	d := Coordinates{X: 0, Y: 0}.Distance(Coordinates{X: 3, Y: 4})
	if d != 5 {
		t.Fatalf("distance = %v, want 5", d)
	}
}
