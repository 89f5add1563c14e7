package cache

import (
	"context"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ports"
	"strings"
)

// RunFinder is the lookup the SQL result cache needs from a run store.
type RunFinder interface {
	ports.RunRepository
	LatestRunID(ctx context.Context, fingerprint string) (string, error)
}

// Database backed result cache. Finished runs already carry their
// fingerprint, so a hit is the newest stored run with the same one.
type SQLResultCache struct {
	Runs RunFinder
}

func NewSQLResultCache(runs RunFinder) *SQLResultCache {
	return &SQLResultCache{Runs: runs}
}

func (c *SQLResultCache) Get(ctx context.Context, fingerprint string) (*domain.OptimizationRun, bool, error) {
	if c.Runs == nil {
		return nil, false, errors.New("result cache: run store is nil")
	}
	if strings.TrimSpace(fingerprint) == "" {
		return nil, false, errors.New("get result cache: fingerprint must not be empty")
	}

	runID, err := c.Runs.LatestRunID(ctx, fingerprint)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	run, err := c.Runs.GetRun(ctx, runID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return run, true, nil
}

// Put stores run if it is not stored yet; saving is idempotent per run id.
func (c *SQLResultCache) Put(ctx context.Context, fingerprint string, run *domain.OptimizationRun) error {
	if c.Runs == nil {
		return errors.New("result cache: run store is nil")
	}
	if strings.TrimSpace(fingerprint) == "" {
		return errors.New("put result cache: fingerprint must not be empty")
	}
	if run == nil {
		return errors.New("put result cache: run must be non-nil")
	}
	if run.Fingerprint != fingerprint {
		return errors.New("put result cache: run fingerprint does not match key")
	}
	return c.Runs.SaveRun(ctx, run)
}
