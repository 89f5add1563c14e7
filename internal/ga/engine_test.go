package ga

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"fleet-route-optimizer/internal/domain"
)

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func runEngine(t *testing.T, e *Engine, inst *domain.ProblemInstance) Result {
	t.Helper()
	res, err := e.Run(context.Background(), inst, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestEngineReproducible(t *testing.T) {
	inst := randomInstance(t, 30, 42)
	cfg := DefaultConfig()
	cfg.PopulationSize = 40
	cfg.Generations = 15

	a := runEngine(t, newEngine(t, cfg), inst)
	b := runEngine(t, newEngine(t, cfg), inst)

	if len(a.Snapshots) != len(b.Snapshots) {
		t.Fatalf("snapshots = %d vs %d", len(a.Snapshots), len(b.Snapshots))
	}
	for g := range a.Snapshots {
		sa, sb := a.Snapshots[g], b.Snapshots[g]
		if sa.BestFitness != sb.BestFitness || sa.MeanFitness != sb.MeanFitness || sa.MinFitness != sb.MinFitness {
			t.Fatalf("generation %d differs: %+v vs %+v", g, sa, sb)
		}
		for i := range sa.Best {
			if sa.Best[i] != sb.Best[i] {
				t.Fatalf("generation %d best permutation differs", g)
			}
		}
	}
	if a.Evaluations != b.Evaluations {
		t.Fatalf("evaluations = %d vs %d", a.Evaluations, b.Evaluations)
	}
}

func TestEngineParallelEvaluationMatchesSequential(t *testing.T) {
	inst := randomInstance(t, 40, 3)
	cfg := DefaultConfig()
	cfg.PopulationSize = 60
	cfg.Generations = 10

	seq := runEngine(t, newEngine(t, cfg), inst)

	cfg.Workers = 8
	par := runEngine(t, newEngine(t, cfg), inst)

	for g := range seq.Snapshots {
		if seq.Snapshots[g].BestFitness != par.Snapshots[g].BestFitness ||
			seq.Snapshots[g].MeanFitness != par.Snapshots[g].MeanFitness {
			t.Fatalf("generation %d: sequential %+v, parallel %+v", g, seq.Snapshots[g], par.Snapshots[g])
		}
	}
}

func TestEngineHallOfFameMonotonic(t *testing.T) {
	inst := randomInstance(t, 50, 21)
	cfg := DefaultConfig()
	cfg.Generations = 30

	var seen []GenerationSnapshot
	res, err := newEngine(t, cfg).Run(context.Background(), inst, func(s GenerationSnapshot) {
		seen = append(seen, s)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(seen) != 30 || len(res.Snapshots) != 30 {
		t.Fatalf("emitted %d, stored %d, want 30", len(seen), len(res.Snapshots))
	}

	for g, s := range seen {
		if s.Generation != g {
			t.Fatalf("snapshot %d has generation %d", g, s.Generation)
		}
		if !isPermutation(s.Best, inst.Size()) {
			t.Fatalf("generation %d best is not a permutation", g)
		}
		if s.BestFitness > s.MinFitness {
			t.Fatalf("generation %d: best so far %v worse than population best %v", g, s.BestFitness, s.MinFitness)
		}
		if s.MinFitness > s.MeanFitness+1e-9 {
			t.Fatalf("generation %d: min %v above mean %v", g, s.MinFitness, s.MeanFitness)
		}
		if g > 0 && s.BestFitness > seen[g-1].BestFitness {
			t.Fatalf("generation %d: best fitness rose from %v to %v", g, seen[g-1].BestFitness, s.BestFitness)
		}
	}

	if !res.HasBest || res.BestFitness != seen[len(seen)-1].BestFitness {
		t.Fatalf("result best = %v, last snapshot = %v", res.BestFitness, seen[len(seen)-1].BestFitness)
	}
	if got := RouteDistance(inst, res.Best); got != res.BestFitness {
		t.Fatalf("best fitness %v does not match its permutation (%v)", res.BestFitness, got)
	}
}

func TestEngineEmitCannotAlterRun(t *testing.T) {
	inst := randomInstance(t, 20, 4)
	cfg := DefaultConfig()
	cfg.Generations = 5

	ref := runEngine(t, newEngine(t, cfg), inst)

	res, err := newEngine(t, cfg).Run(context.Background(), inst, func(s GenerationSnapshot) {
		for i := range s.Best {
			s.Best[i] = -1
		}
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.BestFitness != ref.BestFitness {
		t.Fatalf("best = %v, want %v", res.BestFitness, ref.BestFitness)
	}
	if !isPermutation(res.Best, inst.Size()) {
		t.Fatal("subscriber mutated engine state")
	}
}

func TestEnginePermutationInvariantEveryGeneration(t *testing.T) {
	inst := randomInstance(t, 30, 5)
	cfg := DefaultConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 12
	cfg.MutationProb = 1
	cfg.GeneMutationProb = 0.3

	e := newEngine(t, cfg)
	checked := 0
	e.Selector = checkingSelector{t: t, inner: e.Selector, n: inst.Size(), count: &checked}
	runEngine(t, e, inst)

	if checked != cfg.PopulationSize*cfg.Generations {
		t.Fatalf("checked %d members, want %d", checked, cfg.PopulationSize*cfg.Generations)
	}
}

type checkingSelector struct {
	t     *testing.T
	inner Selector
	n     int
	count *int
}

func (s checkingSelector) Select(rng *rand.Rand, pop []*Individual, k int, obj Objective) []*Individual {
	for _, ind := range pop {
		if !isPermutation(ind.Genes, s.n) {
			s.t.Fatalf("invalid member before selection: %v", ind.Genes)
		}
		if _, ok := ind.Fitness(); !ok {
			s.t.Fatal("stale member reached selection")
		}
		*s.count++
	}
	return s.inner.Select(rng, pop, k, obj)
}

func TestEngineBoundaries(t *testing.T) {
	inst := randomInstance(t, 10, 1)

	t.Run("zero generations", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Generations = 0

		res, err := newEngine(t, cfg).Run(context.Background(), inst, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if len(res.Snapshots) != 0 {
			t.Fatalf("snapshots = %d, want 0", len(res.Snapshots))
		}
		if res.HasBest || res.Best != nil || res.Evaluations != 0 {
			t.Fatalf("hall of fame touched: %+v", res)
		}
	})

	t.Run("population of one", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.PopulationSize = 1
		cfg.Generations = 5

		res, err := newEngine(t, cfg).Run(context.Background(), inst, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if len(res.Snapshots) != 5 || !res.HasBest {
			t.Fatalf("result = %+v", res)
		}
	})

	t.Run("no customers", func(t *testing.T) {
		empty := mustInstance(t, domain.Coordinates{}, nil, nil, 5)
		res, err := newEngine(t, DefaultConfig()).Run(context.Background(), empty, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if res.BestFitness != 0 {
			t.Fatalf("best = %v, want 0", res.BestFitness)
		}
	})
}

func TestEngineEndToEndTwoCustomers(t *testing.T) {
	inst := mustInstance(t,
		domain.Coordinates{},
		[]domain.Coordinates{{X: 10, Y: 0}, {X: 0, Y: 10}},
		[]int{1, 1}, 5,
	)

	cfg := DefaultConfig()
	cfg.PopulationSize = 10

	e := newEngine(t, cfg)
	observed := math.Inf(1)
	e.Evaluator = EvaluatorFunc(func(genes []int) float64 {
		d := RouteDistance(inst, genes)
		observed = math.Min(observed, d)
		return d
	})

	res, err := e.Run(context.Background(), inst, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := 20 + math.Sqrt(200)
	if math.Abs(res.BestFitness-want) > 1e-9 {
		t.Fatalf("best = %v, want %v", res.BestFitness, want)
	}
	if res.BestFitness > observed {
		t.Fatalf("hall of fame %v worse than observed %v", res.BestFitness, observed)
	}
}

func TestEngineImproves(t *testing.T) {
	inst := randomInstance(t, 60, 99)
	cfg := DefaultConfig()
	cfg.Generations = 40

	res := runEngine(t, newEngine(t, cfg), inst)
	first, last := res.Snapshots[0], res.Snapshots[len(res.Snapshots)-1]
	if last.BestFitness >= first.MeanFitness {
		t.Fatalf("final best %v did not beat initial mean %v", last.BestFitness, first.MeanFitness)
	}
}

func TestEngineConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"negative generations", func(c *Config) { c.Generations = -1 }},
		{"crossover above one", func(c *Config) { c.CrossoverProb = 1.5 }},
		{"negative mutation", func(c *Config) { c.MutationProb = -0.1 }},
		{"gene probability", func(c *Config) { c.GeneMutationProb = 2 }},
		{"tournament", func(c *Config) { c.TournamentSize = 0 }},
		{"objective", func(c *Config) { c.Objective = Objective(7) }},
		{"workers", func(c *Config) { c.Workers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if !IsConfigError(err) {
				t.Fatal("IsConfigError = false")
			}
		})
	}
}

func TestEngineStrictCapacity(t *testing.T) {
	inst := mustInstance(t, domain.Coordinates{}, []domain.Coordinates{{X: 1}, {X: 2}}, []int{9, 1}, 5)

	cfg := DefaultConfig()
	cfg.Generations = 3
	if _, err := newEngine(t, cfg).Run(context.Background(), inst, nil); err != nil {
		t.Fatalf("default mode must accept heavy customers: %v", err)
	}

	cfg.StrictCapacity = true
	res, err := newEngine(t, cfg).Run(context.Background(), inst, nil)
	if !errors.Is(err, domain.ErrDemandExceedsCapacity) {
		t.Fatalf("err = %v, want ErrDemandExceedsCapacity", err)
	}
	if len(res.Snapshots) != 0 {
		t.Fatal("strict rejection must not run any generation")
	}
}

func TestEngineInvariantViolation(t *testing.T) {
	inst := randomInstance(t, 10, 2)
	cfg := DefaultConfig()
	cfg.CrossoverProb = 1

	e := newEngine(t, cfg)
	e.Crossover = duplicatingCrossover{}

	_, err := e.Run(context.Background(), inst, nil)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("err = %v, want ErrInvariantViolation", err)
	}
}

type duplicatingCrossover struct{}

func (duplicatingCrossover) Cross(_ *rand.Rand, a, b []int) {
	a[0] = a[1]
}

func TestEngineCancelled(t *testing.T) {
	inst := randomInstance(t, 10, 2)
	ctx, cancel := context.WithCancel(context.Background())

	cfg := DefaultConfig()
	cfg.Generations = 100
	e := newEngine(t, cfg)

	res, err := e.Run(ctx, inst, func(s GenerationSnapshot) {
		if s.Generation == 4 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(res.Snapshots) != 5 || !res.HasBest {
		t.Fatalf("partial result = %d snapshots, has best %v", len(res.Snapshots), res.HasBest)
	}
}

func TestObjectiveText(t *testing.T) {
	var o Objective
	if err := o.UnmarshalText([]byte("Maximize")); err != nil || o != Maximize {
		t.Fatalf("objective = %v err = %v", o, err)
	}
	if err := o.UnmarshalText([]byte("sideways")); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if Minimize.String() != "minimize" {
		t.Fatalf("string = %q", Minimize.String())
	}
}
