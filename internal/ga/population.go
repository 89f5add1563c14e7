package ga

import (
	"math/rand"

	"github.com/sourcegraph/conc/pool"
)

// Population is a fixed-size ordered set of individuals.
// Reproduction replaces members but never resizes it.
type Population struct {
	members []*Individual
}

// NewPopulation creates size individuals, each a uniformly random permutation
// of n customer indices. No fitness is computed.
func NewPopulation(size, n int, rng *rand.Rand) *Population {
	members := make([]*Individual, size)
	for i := range members {
		genes := make([]int, n)
		initPermutation(genes)
		shufflePermutation(genes, rng)
		members[i] = NewIndividual(genes)
	}
	return &Population{members: members}
}

// PopulationOf wraps existing individuals.
func PopulationOf(members []*Individual) *Population {
	return &Population{members: members}
}

func (p *Population) Len() int { return len(p.members) }

// Individuals exposes members in order. Callers changing Genes must Invalidate.
func (p *Population) Individuals() []*Individual { return p.members }

// Stale returns members whose cached fitness is invalid.
func (p *Population) Stale() []*Individual {
	out := make([]*Individual, 0, len(p.members))
	for _, ind := range p.members {
		if !ind.valid {
			out = append(out, ind)
		}
	}
	return out
}

// Evaluate assigns fitness to every stale member and returns how many were
// evaluated. With workers > 1 evaluation runs on a bounded goroutine pool;
// the evaluator must then be safe for concurrent use.
func (p *Population) Evaluate(ev Evaluator, workers int) int {
	stale := p.Stale()
	if workers <= 1 || len(stale) < 2 {
		for _, ind := range stale {
			ind.SetFitness(ev.Evaluate(ind.Genes))
		}
		return len(stale)
	}

	wp := pool.New().WithMaxGoroutines(workers)
	for _, ind := range stale {
		wp.Go(func() {
			ind.SetFitness(ev.Evaluate(ind.Genes))
		})
	}
	wp.Wait()

	return len(stale)
}

// Mean is the average valid fitness; 0 when nothing is evaluated.
func (p *Population) Mean() float64 {
	sum, count := 0.0, 0
	for _, ind := range p.members {
		if ind.valid {
			sum += ind.fitness
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Best returns the first member with the best valid fitness under obj.
func (p *Population) Best(obj Objective) (*Individual, bool) {
	var best *Individual
	for _, ind := range p.members {
		if !ind.valid {
			continue
		}
		if best == nil || obj.Better(ind.fitness, best.fitness) {
			best = ind
		}
	}
	return best, best != nil
}
