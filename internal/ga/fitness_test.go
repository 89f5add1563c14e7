package ga

import (
	"math"
	"testing"

	"fleet-route-optimizer/internal/domain"
)

func mustInstance(t *testing.T, depot domain.Coordinates, locs []domain.Coordinates, demands []int, capacity int) *domain.ProblemInstance {
	t.Helper()
	inst, err := domain.NewProblemInstance(t.Name(), depot, locs, demands, capacity)
	if err != nil {
		t.Fatalf("build instance: %v", err)
	}
	return inst
}

func TestRouteDistanceTwoCustomers(t *testing.T) {
	inst := mustInstance(t,
		domain.Coordinates{},
		[]domain.Coordinates{{X: 10, Y: 0}, {X: 0, Y: 10}},
		[]int{1, 1}, 5,
	)

	want := 10 + math.Sqrt(200) + 10
	for _, perm := range [][]int{{0, 1}, {1, 0}} {
		got := RouteDistance(inst, perm)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("distance(%v) = %v, want %v", perm, got, want)
		}
	}
}

func TestRouteDistanceCapacitySplit(t *testing.T) {
	inst := mustInstance(t,
		domain.Coordinates{},
		[]domain.Coordinates{{X: 1}, {X: 2}, {X: 3}},
		[]int{3, 3, 3}, 5,
	)

	// 3+3 > 5: the vehicle must go home right after customer 0.
	if got := DepotReturns(inst, []int{0, 1}); got != 1 {
		t.Fatalf("returns after [0 1] = %d, want 1", got)
	}
	if got := DepotReturns(inst, []int{0, 1, 2}); got != 2 {
		t.Fatalf("returns after [0 1 2] = %d, want 2", got)
	}

	// 0->1->0, 0->2->0, 0->3->0
	if got := RouteDistance(inst, []int{0, 1, 2}); math.Abs(got-12) > 1e-9 {
		t.Fatalf("distance = %v, want 12", got)
	}
}

func TestRouteDistanceOverloadedCustomer(t *testing.T) {
	inst := mustInstance(t,
		domain.Coordinates{},
		[]domain.Coordinates{{X: 1}, {X: 2}},
		[]int{9, 1}, 5,
	)

	// The heavy customer is served alone: 0->1->0 then 0->2->0.
	if got := RouteDistance(inst, []int{0, 1}); math.Abs(got-6) > 1e-9 {
		t.Fatalf("distance = %v, want 6", got)
	}
	if got := DepotReturns(inst, []int{0, 1}); got != 1 {
		t.Fatalf("returns = %d, want 1", got)
	}
}

func TestRouteDistanceIsPure(t *testing.T) {
	inst := randomInstance(t, 40, 7)
	perm := []int{}
	for i := inst.Size() - 1; i >= 0; i-- {
		perm = append(perm, i)
	}
	before := append([]int(nil), perm...)

	a := RouteDistance(inst, perm)
	b := RouteDistance(inst, perm)
	if a != b {
		t.Fatalf("distance not deterministic: %v != %v", a, b)
	}
	for i := range perm {
		if perm[i] != before[i] {
			t.Fatal("evaluation modified the permutation")
		}
	}
}

func TestRouteDistanceMatchesSplitRoutes(t *testing.T) {
	inst := randomInstance(t, 60, 11)
	// A few customers no single vehicle can carry.
	for _, i := range []int{0, 7, 31} {
		inst.Customers[i].Demand = inst.Capacity + 4
	}
	pop := NewPopulation(20, inst.Size(), newRand(3))

	heavyFirst := []int{7}
	for i := 0; i < inst.Size(); i++ {
		if i != 7 {
			heavyFirst = append(heavyFirst, i)
		}
	}
	orders := [][]int{heavyFirst}
	for _, ind := range pop.Individuals() {
		orders = append(orders, ind.Genes)
	}

	for _, genes := range orders {
		plans, err := domain.SplitRoutes(inst, genes)
		if err != nil {
			t.Fatalf("split routes: %v", err)
		}

		if got, want := len(plans)-1, DepotReturns(inst, genes); got != want {
			t.Fatalf("split returns = %d, evaluator returns = %d", got, want)
		}

		total := domain.TotalDistance(plans)
		if d := RouteDistance(inst, genes); math.Abs(total-d) > 1e-6 {
			t.Fatalf("split distance = %v, evaluator distance = %v", total, d)
		}
	}
}

func TestEmptyRoute(t *testing.T) {
	inst := mustInstance(t, domain.Coordinates{X: 5, Y: 5}, nil, nil, 5)
	if got := RouteDistance(inst, nil); got != 0 {
		t.Fatalf("distance = %v, want 0", got)
	}
}
