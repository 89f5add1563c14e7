package repositories

import (
	"context"
	"encoding/json"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ports"
	"fmt"
	"os"
	"strings"
)

type InstanceSeed struct {
	Name      string       `json:"name"`
	Depot     [2]float64   `json:"depot"`
	Capacity  int          `json:"capacity"`
	Locations [][2]float64 `json:"locations"`
	Demands   []int        `json:"demands"`
}

// ToInstance converts the seed into a validated problem instance.
func (s InstanceSeed) ToInstance() (*domain.ProblemInstance, error) {
	locs := make([]domain.Coordinates, len(s.Locations))
	for i, l := range s.Locations {
		locs[i] = domain.Coordinates{X: l[0], Y: l[1]}
	}
	return domain.NewProblemInstance(
		strings.TrimSpace(s.Name),
		domain.Coordinates{X: s.Depot[0], Y: s.Depot[1]},
		locs,
		s.Demands,
		s.Capacity,
	)
}

// Populate the repository with instances from a JSON file.
// Every seed is validated before anything is written.
func SeedFromJSON(ctx context.Context, repo ports.InstanceRepository, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed instances: read %q: %w", jsonPath, err)
	}

	var data []InstanceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed instances: parse json: %w", err)
	}

	insts := make([]*domain.ProblemInstance, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed instances: item at index %d: name cannot be empty", i+1)
		}
		inst, err := item.ToInstance()
		if err != nil {
			return fmt.Errorf("seed instances: item %q: %w", item.Name, err)
		}
		insts = append(insts, inst)
	}

	for _, inst := range insts {
		if err := repo.SaveInstance(ctx, inst); err != nil {
			return fmt.Errorf("seed instances: %w", err)
		}
	}

	return nil
}
