package domain

import "time"

// One per-generation record of an optimization run, in emission order.
// Best is the best visiting order found so far.
type GenerationRecord struct {
	Generation  int
	BestFitness float64
	MinFitness  float64
	MeanFitness float64
	Best        []int
}

// Represents a completed optimization run over one problem instance.
// It is immutable reporting data; History is the full snapshot sequence that
// visualization consumers replay.
type OptimizationRun struct {
	RunID        string
	InstanceName string
	Fingerprint  string
	// InstanceFingerprint hashes the instance data the run was computed on.
	InstanceFingerprint string
	Seed                int64
	PopulationSize      int
	Generations         int
	BestOrder           []int
	BestDistance        float64
	Evaluations         int
	Duration            time.Duration
	CreatedAt           time.Time
	History             []GenerationRecord
}
