package ga

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"fleet-route-optimizer/internal/domain"
)

// GenerationSnapshot is the record emitted once per generation.
// Best is a copy and never aliases engine state.
type GenerationSnapshot struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	// MinFitness is the best fitness within the current population.
	MinFitness  float64 `json:"min_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	Best        []int   `json:"best"`
}

// Result summarizes a finished (or cancelled) run.
type Result struct {
	Best        []int
	BestFitness float64
	// HasBest is false when no generation ran.
	HasBest     bool
	Snapshots   []GenerationSnapshot
	Evaluations int
	Generations int
	Duration    time.Duration
}

// Engine runs the generational loop
// Init -> (Vary -> Evaluate-Stale -> Select -> RecordBest)* -> Terminal.
//
// All operator randomness comes from Rng, in this order per run: population
// init, then per generation crossover gates and cut points, mutation gates and
// swaps, and finally tournament sampling. Evaluation never draws, so Workers
// does not affect results.
type Engine struct {
	Cfg       Config
	Rng       *rand.Rand
	Selector  Selector
	Crossover Crossover
	Mutator   Mutator
	// Evaluator overrides the route-distance evaluator when set.
	Evaluator Evaluator
}

// New validates cfg and returns an engine with the default operators and a
// generator seeded from cfg.Seed.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Cfg:       cfg,
		Rng:       rand.New(rand.NewSource(cfg.Seed)),
		Selector:  TournamentSelector{Size: cfg.TournamentSize},
		Crossover: &OrderedCrossover{},
		Mutator:   ShuffleIndexesMutator{IndPB: cfg.GeneMutationProb},
	}, nil
}

// Run optimizes inst for Cfg.Generations generations. emit, if non-nil, is
// called synchronously with each snapshot in order; it cannot influence the run.
//
// The context is only checked between generations. On cancellation the result
// so far is returned together with the context error.
func (e *Engine) Run(
	ctx context.Context,
	inst *domain.ProblemInstance,
	emit func(GenerationSnapshot),
) (Result, error) {
	start := time.Now()

	if err := e.Cfg.Validate(); err != nil {
		return Result{}, err
	}
	if e.Rng == nil {
		return Result{}, fmt.Errorf("random source is nil: %w", ErrInvalidConfig)
	}
	if e.Selector == nil || e.Crossover == nil || e.Mutator == nil {
		return Result{}, fmt.Errorf("operators must be non-nil: %w", ErrInvalidConfig)
	}

	validate := inst.Validate
	if e.Cfg.StrictCapacity {
		validate = inst.ValidateStrict
	}
	if err := validate(); err != nil {
		return Result{}, err
	}

	eval := e.Evaluator
	if eval == nil {
		eval = NewRouteEvaluator(inst)
	}

	n := inst.Size()
	pop := NewPopulation(e.Cfg.PopulationSize, n, e.Rng)
	hof := NewHallOfFame(e.Cfg.Objective)

	res := Result{Snapshots: make([]GenerationSnapshot, 0, e.Cfg.Generations)}

	for gen := 0; gen < e.Cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			finish(&res, hof, start)
			return res, err
		}

		vary(e.Rng, pop.Individuals(), e.Crossover, e.Mutator, e.Cfg.CrossoverProb, e.Cfg.MutationProb)

		for _, ind := range pop.Stale() {
			if err := ValidatePermutation(ind.Genes, n); err != nil {
				finish(&res, hof, start)
				return res, fmt.Errorf("generation %d: after variation: %w", gen, err)
			}
		}

		res.Evaluations += pop.Evaluate(eval, e.Cfg.Workers)

		pop = PopulationOf(e.Selector.Select(e.Rng, pop.Individuals(), pop.Len(), e.Cfg.Objective))
		if pop.Len() != e.Cfg.PopulationSize {
			finish(&res, hof, start)
			return res, fmt.Errorf(
				"generation %d: selection returned %d members, want %d: %w",
				gen, pop.Len(), e.Cfg.PopulationSize, ErrInvariantViolation,
			)
		}

		hof.Update(pop.Individuals())

		snap := snapshot(gen, pop, hof, e.Cfg.Objective)
		res.Snapshots = append(res.Snapshots, snap)
		res.Generations = gen + 1
		if emit != nil {
			emit(cloneSnapshot(snap))
		}
	}

	finish(&res, hof, start)
	return res, nil
}

// IsConfigError reports whether err was raised before any generation ran
// because of invalid input.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, domain.ErrInvalidInstance) ||
		errors.Is(err, domain.ErrDemandExceedsCapacity)
}

func snapshot(gen int, pop *Population, hof *HallOfFame, obj Objective) GenerationSnapshot {
	best, _ := hof.Best()
	bestFit, _ := hof.Fitness()

	minFit := 0.0
	if ind, ok := pop.Best(obj); ok {
		minFit = ind.fitness
	}

	return GenerationSnapshot{
		Generation:  gen,
		BestFitness: bestFit,
		MinFitness:  minFit,
		MeanFitness: pop.Mean(),
		Best:        best.Genes,
	}
}

func cloneSnapshot(s GenerationSnapshot) GenerationSnapshot {
	s.Best = append([]int(nil), s.Best...)
	return s
}

func finish(res *Result, hof *HallOfFame, start time.Time) {
	if best, ok := hof.Best(); ok {
		res.Best = best.Genes
		res.BestFitness, _ = hof.Fitness()
		res.HasBest = true
	}
	res.Duration = time.Since(start)
}
