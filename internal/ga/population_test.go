package ga

import (
	"testing"
)

func TestNewPopulation(t *testing.T) {
	pop := NewPopulation(30, 12, newRand(1))
	if pop.Len() != 30 {
		t.Fatalf("len = %d, want 30", pop.Len())
	}
	for i, ind := range pop.Individuals() {
		if !isPermutation(ind.Genes, 12) {
			t.Fatalf("member %d is not a permutation: %v", i, ind.Genes)
		}
	}
	if len(pop.Stale()) != 30 {
		t.Fatalf("stale = %d, want all 30", len(pop.Stale()))
	}

	distinct := map[string]struct{}{}
	for _, ind := range pop.Individuals() {
		distinct[keyOf(ind.Genes)] = struct{}{}
	}
	if len(distinct) < 25 {
		t.Fatalf("only %d distinct permutations out of 30", len(distinct))
	}
}

func TestPopulationStaleOnlyEvaluation(t *testing.T) {
	inst := randomInstance(t, 20, 6)
	ev := NewRouteEvaluator(inst)
	pop := NewPopulation(16, inst.Size(), newRand(2))

	if got := pop.Evaluate(ev, 1); got != 16 {
		t.Fatalf("evaluated %d, want 16", got)
	}
	if got := pop.Evaluate(ev, 1); got != 0 {
		t.Fatalf("re-evaluated %d fresh members, want 0", got)
	}

	rng := newRand(3)
	mut := ShuffleIndexesMutator{IndPB: 0.5}
	for i, ind := range pop.Individuals() {
		if i%3 == 0 {
			mut.Mutate(rng, ind.Genes)
			ind.Invalidate()
		}
	}

	if got := pop.Evaluate(ev, 4); got != 6 {
		t.Fatalf("evaluated %d stale members, want 6", got)
	}

	// Stale-only evaluation must leave every cache equal to a full recompute.
	for i, ind := range pop.Individuals() {
		f, ok := ind.Fitness()
		if !ok {
			t.Fatalf("member %d still stale", i)
		}
		if want := RouteDistance(inst, ind.Genes); f != want {
			t.Fatalf("member %d fitness = %v, want %v", i, f, want)
		}
	}
}

func TestPopulationStats(t *testing.T) {
	members := []*Individual{NewIndividual([]int{0}), NewIndividual([]int{0}), NewIndividual([]int{0})}
	members[0].SetFitness(4)
	members[1].SetFitness(2)

	pop := PopulationOf(members)
	if got := pop.Mean(); got != 3 {
		t.Fatalf("mean = %v, want 3 (stale members ignored)", got)
	}

	best, ok := pop.Best(Minimize)
	if !ok || best != members[1] {
		t.Fatalf("best = %v, want member 1", best)
	}
	worst, _ := pop.Best(Maximize)
	if worst != members[0] {
		t.Fatalf("maximize best = %v, want member 0", worst)
	}

	if _, ok := PopulationOf([]*Individual{NewIndividual(nil)}).Best(Minimize); ok {
		t.Fatal("unevaluated population has no best")
	}
}

func TestHallOfFame(t *testing.T) {
	hof := NewHallOfFame(Minimize)
	if _, ok := hof.Best(); ok {
		t.Fatal("new hall of fame must be empty")
	}

	a := NewIndividual([]int{0, 1})
	a.SetFitness(5)
	b := NewIndividual([]int{1, 0})
	b.SetFitness(5)

	if !hof.Update([]*Individual{a, b}) {
		t.Fatal("first update must record")
	}
	got, _ := hof.Best()
	if got.Genes[0] != 0 {
		t.Fatalf("tie must keep first member, got %v", got.Genes)
	}

	if hof.Update([]*Individual{b}) {
		t.Fatal("equal fitness is not an improvement")
	}

	// The stored copy is independent of the population.
	a.Genes[0] = 9
	got, _ = hof.Best()
	if got.Genes[0] != 0 {
		t.Fatal("hall of fame aliases population genes")
	}

	c := NewIndividual([]int{1, 0})
	c.SetFitness(3)
	if !hof.Update([]*Individual{c}) {
		t.Fatal("strict improvement must replace incumbent")
	}
	if f, _ := hof.Fitness(); f != 3 {
		t.Fatalf("fitness = %v, want 3", f)
	}
}

func TestValidatePermutation(t *testing.T) {
	if err := ValidatePermutation([]int{2, 0, 1}, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range [][]int{{0, 0, 1}, {0, 1}, {0, 1, 3}, {-1, 0, 1}} {
		if err := ValidatePermutation(bad, 3); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}

func keyOf(genes []int) string {
	b := make([]byte, 0, len(genes)*3)
	for _, g := range genes {
		b = append(b, byte(g), ',')
	}
	return string(b)
}
