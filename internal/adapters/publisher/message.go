package publisher

import (
	"encoding/json"
	"fleet-route-optimizer/internal/domain"
)

const (
	eventGeneration = "generation"
	eventComplete   = "complete"
)

// Wire form shared by the Redis and NATS publishers.
type message struct {
	Type        string  `json:"type"`
	RunID       string  `json:"run_id"`
	Generation  int     `json:"generation,omitempty"`
	BestFitness float64 `json:"best_fitness,omitempty"`
	MinFitness  float64 `json:"min_fitness,omitempty"`
	MeanFitness float64 `json:"mean_fitness,omitempty"`
	Best        []int   `json:"best,omitempty"`
}

func encodeRecord(runID string, rec domain.GenerationRecord) ([]byte, error) {
	return json.Marshal(message{
		Type:        eventGeneration,
		RunID:       runID,
		Generation:  rec.Generation,
		BestFitness: rec.BestFitness,
		MinFitness:  rec.MinFitness,
		MeanFitness: rec.MeanFitness,
		Best:        rec.Best,
	})
}

func encodeComplete(runID string) ([]byte, error) {
	return json.Marshal(message{Type: eventComplete, RunID: runID})
}

func decode(data []byte) (message, error) {
	var m message
	err := json.Unmarshal(data, &m)
	return m, err
}

func (m message) record() domain.GenerationRecord {
	return domain.GenerationRecord{
		Generation:  m.Generation,
		BestFitness: m.BestFitness,
		MinFitness:  m.MinFitness,
		MeanFitness: m.MeanFitness,
		Best:        m.Best,
	}
}
