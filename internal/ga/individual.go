package ga

import "math/rand"

// Individual is one candidate solution: a visiting order over all customers
// and the fitness cached for that exact order.
type Individual struct {
	Genes   []int
	fitness float64
	valid   bool
}

// NewIndividual returns an individual with no fitness computed yet.
func NewIndividual(genes []int) *Individual {
	return &Individual{Genes: genes}
}

// Fitness returns the cached value and whether it is still valid.
func (ind *Individual) Fitness() (float64, bool) {
	return ind.fitness, ind.valid
}

func (ind *Individual) SetFitness(f float64) {
	ind.fitness = f
	ind.valid = true
}

// Invalidate must be called whenever Genes change.
func (ind *Individual) Invalidate() {
	ind.fitness = 0
	ind.valid = false
}

// Clone returns a deep copy with the same cache state.
func (ind *Individual) Clone() *Individual {
	genes := make([]int, len(ind.Genes))
	copy(genes, ind.Genes)
	return &Individual{Genes: genes, fitness: ind.fitness, valid: ind.valid}
}

// initPermutation fills p with [0, 1, ..., n-1].
func initPermutation(p []int) {
	for i := range p {
		p[i] = i
	}
}

// shufflePermutation is a Fisher-Yates shuffle drawing from rng only.
func shufflePermutation(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}
