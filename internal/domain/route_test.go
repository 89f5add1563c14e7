package domain

import (
	"math"
	"testing"
)

func TestSplitRoutesForcedReturn(t *testing.T) {
	locs := []Coordinates{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	inst, err := NewProblemInstance("split", Coordinates{}, locs, []int{3, 3, 3}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plans, err := SplitRoutes(inst, []int{0, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3+3 > 5 after the first customer, and again after the second.
	if len(plans) != 3 {
		t.Fatalf("trips = %d, want 3", len(plans))
	}
	for i, p := range plans {
		if len(p.Stops) != 1 || p.Stops[0] != i {
			t.Errorf("trip %d stops = %v, want [%d]", i, p.Stops, i)
		}
		if p.TruckID != i+1 {
			t.Errorf("trip %d truck = %d, want %d", i, p.TruckID, i+1)
		}
	}

	// 2 + 4 + 6
	if got := TotalDistance(plans); math.Abs(got-12) > 1e-9 {
		t.Fatalf("total distance = %v, want 12", got)
	}
}

func TestSplitRoutesSingleTrip(t *testing.T) {
	locs := []Coordinates{{X: 10, Y: 0}, {X: 0, Y: 10}}
	inst, err := NewProblemInstance("two", Coordinates{}, locs, []int{1, 1}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plans, err := SplitRoutes(inst, []int{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("trips = %d, want 1", len(plans))
	}

	want := 20 + math.Sqrt(200)
	if math.Abs(plans[0].Distance-want) > 1e-9 {
		t.Fatalf("distance = %v, want %v", plans[0].Distance, want)
	}

	path := plans[0].Path(inst)
	if len(path) != 4 || path[0] != inst.Depot || path[3] != inst.Depot {
		t.Fatalf("path = %v, want depot at both ends", path)
	}
}

func TestSplitRoutesOverloadedCustomer(t *testing.T) {
	locs := []Coordinates{{X: 1}, {X: 2}, {X: 3}}
	inst, err := NewProblemInstance("heavy", Coordinates{}, locs, []int{1, 9, 1}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plans, err := SplitRoutes(inst, []int{0, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("trips = %d, want 3", len(plans))
	}
	if plans[1].Load != 9 || len(plans[1].Stops) != 1 {
		t.Fatalf("overloaded trip = %+v, want single customer with load 9", plans[1])
	}
	for i, p := range plans {
		if p.Overloaded != (i == 1) {
			t.Fatalf("trip %d overloaded = %v", i, p.Overloaded)
		}
	}
}

func TestSplitRoutesRejectsUnknownCustomer(t *testing.T) {
	inst, err := NewProblemInstance("one", Coordinates{}, []Coordinates{{X: 1}}, []int{1}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := SplitRoutes(inst, []int{3}); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}
