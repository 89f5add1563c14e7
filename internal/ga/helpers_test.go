package ga

import (
	"math/rand"
	"testing"

	"fleet-route-optimizer/internal/domain"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// randomInstance mirrors the demo generator: 0..100 grid, demand 1..5, capacity 20.
func randomInstance(t *testing.T, n int, seed int64) *domain.ProblemInstance {
	t.Helper()
	rng := newRand(seed)
	locs := make([]domain.Coordinates, n)
	demands := make([]int, n)
	for i := range locs {
		demands[i] = 1 + rng.Intn(5)
		locs[i] = domain.Coordinates{X: float64(rng.Intn(101)), Y: float64(rng.Intn(101))}
	}
	return mustInstance(t, domain.Coordinates{X: 50, Y: 50}, locs, demands, 20)
}

func isPermutation(p []int, n int) bool {
	return ValidatePermutation(p, n) == nil
}
