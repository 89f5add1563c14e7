package ga

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned before a run starts; no generation is executed.
	ErrInvalidConfig = errors.New("invalid ga config")

	// ErrInvariantViolation means an operator produced a malformed permutation.
	// It indicates a defect and aborts the run.
	ErrInvariantViolation = errors.New("permutation invariant violated")
)

// ValidatePermutation checks that perm holds every index in [0, n) exactly once.
func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("permutation length must be %d (got %d): %w", n, len(perm), ErrInvariantViolation)
	}
	seen := make([]bool, n)
	for i, v := range perm {
		if v < 0 || v >= n {
			return fmt.Errorf("perm[%d]=%d out of range [0,%d): %w", i, v, n, ErrInvariantViolation)
		}
		if seen[v] {
			return fmt.Errorf("duplicate customer index %d in permutation: %w", v, ErrInvariantViolation)
		}
		seen[v] = true
	}
	return nil
}
