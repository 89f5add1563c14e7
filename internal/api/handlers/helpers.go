package handlers

import (
	"encoding/json"
	"errors"
	"fleet-route-optimizer/internal/api/dto"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ga"
	"fleet-route-optimizer/internal/platform/obs"
	"fleet-route-optimizer/internal/ports"
	"fleet-route-optimizer/internal/services"
	"io"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowOnly(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps input errors to 400, missing records to 404 and
// everything else to an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case ga.IsConfigError(err), errors.Is(err, services.ErrInstanceRequired):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	default:
		log.Printf("req_id=%s op=%s err=%v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toInstance(req dto.InstanceRequest) (*domain.ProblemInstance, error) {
	locs := make([]domain.Coordinates, len(req.Locations))
	for i, l := range req.Locations {
		locs[i] = domain.Coordinates{X: l[0], Y: l[1]}
	}
	return domain.NewProblemInstance(
		req.Name,
		domain.Coordinates{X: req.Depot[0], Y: req.Depot[1]},
		locs,
		req.Demands,
		req.Capacity,
	)
}

func toInstanceResponse(inst *domain.ProblemInstance) dto.InstanceResponse {
	res := dto.InstanceResponse{
		Name:        inst.Name,
		Depot:       [2]float64{inst.Depot.X, inst.Depot.Y},
		Capacity:    inst.Capacity,
		TotalDemand: inst.TotalDemand(),
		Customers:   make([]dto.CustomerResponse, 0, inst.Size()),
	}
	for _, c := range inst.Customers {
		res.Customers = append(res.Customers, dto.CustomerResponse{
			Index:  c.Index,
			X:      c.Location.X,
			Y:      c.Location.Y,
			Demand: c.Demand,
		})
	}
	return res
}

func toGenerationResponse(rec domain.GenerationRecord) dto.GenerationResponse {
	return dto.GenerationResponse{
		Generation:  rec.Generation,
		BestFitness: rec.BestFitness,
		MinFitness:  rec.MinFitness,
		MeanFitness: rec.MeanFitness,
		Best:        rec.Best,
	}
}

func toOptimizationResponse(res *services.OptimizeResult) dto.OptimizationResponse {
	run := res.Run
	out := dto.OptimizationResponse{
		RunID:          run.RunID,
		Instance:       run.InstanceName,
		Fingerprint:    run.Fingerprint,
		Seed:           run.Seed,
		PopulationSize: run.PopulationSize,
		Generations:    run.Generations,
		BestOrder:      run.BestOrder,
		BestDistance:   run.BestDistance,
		Evaluations:    run.Evaluations,
		DurationMS:     run.Duration.Milliseconds(),
		CreatedAt:      run.CreatedAt,
		Cached:         res.Cached,
		History:        make([]dto.GenerationResponse, 0, len(run.History)),
	}
	for _, rec := range run.History {
		out.History = append(out.History, toGenerationResponse(rec))
	}
	for _, p := range res.Routes {
		out.Trips = append(out.Trips, dto.TripResponse{
			TruckID:    p.TruckID,
			Stops:      p.Stops,
			Load:       p.Load,
			Distance:   p.Distance,
			Overloaded: p.Overloaded,
		})
	}
	if res.Instance != nil {
		if d, err := services.BaselineDistance(res.Instance); err == nil {
			out.BaselineDistance = &d
		}
	}
	return out
}
