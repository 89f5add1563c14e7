package dto

import (
	"encoding/json"
	"time"
)

type OptimizationRequest struct {
	InstanceName string           `json:"instance"`
	Instance     *InstanceRequest `json:"inline_instance"`
	// Config fields override the server defaults one by one.
	Config    json.RawMessage `json:"config"`
	SkipCache bool            `json:"skip_cache"`
	// Async returns 202 immediately; follow the run on its stream.
	Async bool `json:"async"`
}

type GenerationResponse struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MinFitness  float64 `json:"min_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	Best        []int   `json:"best"`
}

type TripResponse struct {
	TruckID    int     `json:"truck_id"`
	Stops      []int   `json:"stops"`
	Load       int     `json:"load"`
	Distance   float64 `json:"distance"`
	Overloaded bool    `json:"overloaded,omitempty"`
}

type OptimizationResponse struct {
	RunID            string               `json:"run_id"`
	Instance         string               `json:"instance"`
	Fingerprint      string               `json:"fingerprint"`
	Seed             int64                `json:"seed"`
	PopulationSize   int                  `json:"population_size"`
	Generations      int                  `json:"generations"`
	BestOrder        []int                `json:"best_order"`
	BestDistance     float64              `json:"best_distance"`
	BaselineDistance *float64             `json:"baseline_distance,omitempty"`
	Evaluations      int                  `json:"evaluations"`
	DurationMS       int64                `json:"duration_ms"`
	CreatedAt        time.Time            `json:"created_at"`
	Cached           bool                 `json:"cached"`
	Trips            []TripResponse       `json:"trips,omitempty"`
	History          []GenerationResponse `json:"history"`
}

type AcceptedResponse struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	StreamURL string `json:"stream_url"`
}

// StreamMessage is one websocket frame of /optimizations/{id}/stream.
type StreamMessage struct {
	Type  string              `json:"type"`
	RunID string              `json:"run_id"`
	Data  *GenerationResponse `json:"data,omitempty"`
}
