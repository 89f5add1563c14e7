package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fleet-route-optimizer/internal/api/dto"
	"fleet-route-optimizer/internal/ga"
	"fleet-route-optimizer/internal/platform/obs"
	"fleet-route-optimizer/internal/ports"
	"fleet-route-optimizer/internal/services"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	maxPopulation  = 10000
	maxGenerations = 10000
)

type OptimizationHandler struct {
	Service    *services.OptimizationService
	Subscriber ports.SnapshotSubscriber
	Renderer   ports.RouteRenderer
	// Limiter guards Create; nil disables rate limiting.
	Limiter  *rate.Limiter
	Defaults ga.Config

	running sync.Map // run id -> struct{}
	wg      sync.WaitGroup

	baseOnce sync.Once
	base     context.Context
	stopRuns context.CancelFunc
}

// Create runs the engine on a stored or inline instance.
func (h *OptimizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}
	if h.Limiter != nil && !h.Limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req dto.OptimizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cfg := h.Defaults
	if len(req.Config) > 0 && string(req.Config) != "null" {
		dec := json.NewDecoder(bytes.NewReader(req.Config))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid config: "+err.Error())
			return
		}
	}
	if cfg.PopulationSize > maxPopulation || cfg.Generations > maxGenerations {
		writeError(w, r, http.StatusBadRequest, "population_size must be <= 10000 and generations <= 10000")
		return
	}

	svcReq := services.OptimizeRequest{
		RunID:        uuid.NewString(),
		InstanceName: strings.TrimSpace(req.InstanceName),
		Config:       cfg,
		SkipCache:    req.SkipCache,
	}
	if req.Instance != nil {
		inst, err := toInstance(*req.Instance)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if inst.Name == "" {
			inst.Name = "inline"
		}
		svcReq.Instance = inst
	}

	if req.Async {
		// a cached result would never reach the stream of this run id
		svcReq.SkipCache = true
		inst, err := h.Service.ResolveInstance(r.Context(), svcReq)
		if err != nil {
			writeServiceError(w, r, "optimize", err)
			return
		}
		svcReq.Instance = inst
		if err := cfg.Validate(); err != nil {
			writeServiceError(w, r, "optimize", err)
			return
		}
		h.startAsync(obs.RequestID(r.Context()), svcReq)
		writeJSON(w, r, http.StatusAccepted, dto.AcceptedResponse{
			RunID:     svcReq.RunID,
			Status:    "running",
			StreamURL: "/optimizations/" + svcReq.RunID + "/stream",
		})
		return
	}

	res, err := h.Service.Optimize(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, r, "optimize", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOptimizationResponse(res))
}

// runContext is the parent of every asynchronous run. It outlives requests
// and is cancelled by Shutdown.
func (h *OptimizationHandler) runContext() context.Context {
	h.baseOnce.Do(func() {
		h.base, h.stopRuns = context.WithCancel(context.Background())
	})
	return h.base
}

func (h *OptimizationHandler) startAsync(reqID string, req services.OptimizeRequest) {
	ctx := obs.WithRequestID(h.runContext(), reqID)
	h.running.Store(req.RunID, struct{}{})
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.running.Delete(req.RunID)
		if _, err := h.Service.Optimize(ctx, req); err != nil {
			log.Printf("req_id=%s op=optimize.async run_id=%s err=%v", obs.RequestID(ctx), req.RunID, err)
		}
	}()
}

// Wait blocks until all asynchronous runs have finished.
func (h *OptimizationHandler) Wait() { h.wg.Wait() }

// Shutdown cancels the asynchronous runs still going and waits for them to
// return, or for ctx to expire. Cancelled runs are not stored.
func (h *OptimizationHandler) Shutdown(ctx context.Context) error {
	h.runContext()
	h.stopRuns()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown async runs: %w", ctx.Err())
	}
}

func (h *OptimizationHandler) isRunning(runID string) bool {
	_, ok := h.running.Load(runID)
	return ok
}

// Get returns a stored run with its snapshot history.
func (h *OptimizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	runID := r.PathValue("id")
	res, err := h.Service.Run(r.Context(), runID)
	if err != nil {
		if h.isRunning(runID) {
			writeJSON(w, r, http.StatusAccepted, dto.AcceptedResponse{
				RunID:     runID,
				Status:    "running",
				StreamURL: "/optimizations/" + runID + "/stream",
			})
			return
		}
		writeServiceError(w, r, "get run", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOptimizationResponse(res))
}

// Route renders the best route of a stored run as PNG.
func (h *OptimizationHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}
	if h.Renderer == nil {
		writeError(w, r, http.StatusNotImplemented, "rendering is disabled")
		return
	}

	res, err := h.Service.Run(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get run", err)
		return
	}
	if res.Instance == nil {
		writeError(w, r, http.StatusNotFound, "instance of run is not stored or has changed")
		return
	}

	var buf bytes.Buffer
	title := res.Run.InstanceName + ": best distance " + formatFloat(res.Run.BestDistance)
	if err := h.Renderer.RenderRoute(&buf, res.Instance, res.Run.BestOrder, title); err != nil {
		writeServiceError(w, r, "render route", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
