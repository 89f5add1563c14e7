package ga

import (
	"fmt"
	"strings"
)

// Objective carries the fitness direction explicitly instead of a signed weight.
type Objective int

const (
	Minimize Objective = iota
	Maximize
)

// Better reports whether fitness a strictly improves on b.
func (o Objective) Better(a, b float64) bool {
	if o == Maximize {
		return a > b
	}
	return a < b
}

func (o Objective) String() string {
	if o == Maximize {
		return "maximize"
	}
	return "minimize"
}

func (o Objective) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Objective) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "min", "minimize":
		*o = Minimize
	case "max", "maximize":
		*o = Maximize
	default:
		return fmt.Errorf("unknown objective %q (allowed: minimize, maximize): %w", string(b), ErrInvalidConfig)
	}
	return nil
}

type Config struct {
	PopulationSize   int       `yaml:"population_size" json:"population_size"`
	Generations      int       `yaml:"generations" json:"generations"`
	CrossoverProb    float64   `yaml:"crossover_prob" json:"crossover_prob"`
	MutationProb     float64   `yaml:"mutation_prob" json:"mutation_prob"`
	GeneMutationProb float64   `yaml:"gene_mutation_prob" json:"gene_mutation_prob"`
	TournamentSize   int       `yaml:"tournament_size" json:"tournament_size"`
	Seed             int64     `yaml:"seed" json:"seed"`
	Objective        Objective `yaml:"objective" json:"objective"`
	// Workers > 1 evaluates stale individuals concurrently.
	Workers int `yaml:"workers" json:"workers"`
	// StrictCapacity rejects instances with a customer no vehicle can carry.
	StrictCapacity bool `yaml:"strict_capacity" json:"strict_capacity"`
}

func (c Config) Validate() error {
	if c.PopulationSize < 1 {
		return fmt.Errorf("population size must be >= 1 (got %d): %w", c.PopulationSize, ErrInvalidConfig)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0 (got %d): %w", c.Generations, ErrInvalidConfig)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("tournament size must be >= 1 (got %d): %w", c.TournamentSize, ErrInvalidConfig)
	}
	probs := []struct {
		name string
		v    float64
	}{
		{"crossover probability", c.CrossoverProb},
		{"mutation probability", c.MutationProb},
		{"gene mutation probability", c.GeneMutationProb},
	}
	for _, p := range probs {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%s must be in [0,1] (got %f): %w", p.name, p.v, ErrInvalidConfig)
		}
	}
	if c.Objective != Minimize && c.Objective != Maximize {
		return fmt.Errorf("unknown objective %d: %w", c.Objective, ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d): %w", c.Workers, ErrInvalidConfig)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:   100,
		Generations:      30,
		CrossoverProb:    0.7,
		MutationProb:     0.2,
		GeneMutationProb: 0.05,
		TournamentSize:   3,
		Seed:             42,
		Objective:        Minimize,
		Workers:          1,
	}
}
