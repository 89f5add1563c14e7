package services

import (
	"context"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ga"
	"fleet-route-optimizer/internal/platform/metrics"
	"fleet-route-optimizer/internal/platform/obs"
	"fleet-route-optimizer/internal/ports"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrInstanceRequired is returned when a request names no instance.
var ErrInstanceRequired = errors.New("instance name or inline instance is required")

type OptimizeRequest struct {
	// RunID is generated when empty.
	RunID        string
	InstanceName string
	// Instance takes precedence over InstanceName.
	Instance *domain.ProblemInstance
	Config   ga.Config
	// SkipCache forces a fresh run even when a cached result exists.
	SkipCache bool
}

type OptimizeResult struct {
	Run      *domain.OptimizationRun
	Instance *domain.ProblemInstance
	Routes   []domain.RoutePlan
	Cached   bool
}

// OptimizationService runs the engine against stored or inline instances and
// fans the outcome out to the optional adapters. Only Instances and Runs are
// required.
type OptimizationService struct {
	Instances ports.InstanceRepository
	Runs      ports.RunRepository
	Publisher ports.SnapshotPublisher
	Cache     ports.ResultCache
	Notifier  ports.RunNotifier
	Now       func() time.Time
}

func (s *OptimizationService) Optimize(ctx context.Context, req OptimizeRequest) (_ *OptimizeResult, err error) {
	defer obs.Time(ctx, "services.Optimize")(&err)

	inst, err := s.ResolveInstance(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := req.Config.Validate(); err != nil {
		metrics.OptimizationRuns.WithLabelValues("config_error").Inc()
		return nil, fmt.Errorf("optimize: %w", err)
	}

	fp := Fingerprint(inst, req.Config)
	if s.Cache != nil && !req.SkipCache {
		if run, ok, cerr := s.Cache.Get(ctx, fp); cerr != nil {
			log.Printf("req_id=%s op=optimize cache_get_err=%v", obs.RequestID(ctx), cerr)
		} else if ok {
			metrics.OptimizationRuns.WithLabelValues("cached").Inc()
			routes, err := domain.SplitRoutes(inst, run.BestOrder)
			if err != nil {
				return nil, fmt.Errorf("optimize: cached run %s: %w", run.RunID, err)
			}
			return &OptimizeResult{Run: run, Instance: inst, Routes: routes, Cached: true}, nil
		}
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	engine, err := ga.New(req.Config)
	if err != nil {
		metrics.OptimizationRuns.WithLabelValues("config_error").Inc()
		return nil, fmt.Errorf("optimize: %w", err)
	}

	if s.Publisher != nil {
		defer func() {
			if cerr := s.Publisher.Complete(context.WithoutCancel(ctx), runID); cerr != nil {
				log.Printf("req_id=%s op=optimize run_id=%s publish_complete_err=%v", obs.RequestID(ctx), runID, cerr)
			}
		}()
	}

	history := make([]domain.GenerationRecord, 0, req.Config.Generations)
	res, err := engine.Run(ctx, inst, func(snap ga.GenerationSnapshot) {
		rec := toRecord(snap)
		history = append(history, rec)
		if s.Publisher != nil {
			if perr := s.Publisher.Publish(ctx, runID, rec); perr != nil {
				log.Printf("req_id=%s op=optimize run_id=%s gen=%d publish_err=%v", obs.RequestID(ctx), runID, rec.Generation, perr)
			}
		}
	})
	metrics.FitnessEvaluations.Add(float64(res.Evaluations))
	metrics.OptimizationDuration.Observe(res.Duration.Seconds())
	if err != nil {
		metrics.OptimizationRuns.WithLabelValues(outcome(err)).Inc()
		return nil, fmt.Errorf("optimize %q: %w", inst.Name, err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	run := &domain.OptimizationRun{
		RunID:               runID,
		InstanceName:        inst.Name,
		Fingerprint:         fp,
		InstanceFingerprint: InstanceFingerprint(inst),
		Seed:                req.Config.Seed,
		PopulationSize:      req.Config.PopulationSize,
		Generations:         res.Generations,
		BestOrder:           res.Best,
		BestDistance:        res.BestFitness,
		Evaluations:         res.Evaluations,
		Duration:            res.Duration,
		CreatedAt:           now().UTC(),
		History:             history,
	}

	if err := s.Runs.SaveRun(ctx, run); err != nil {
		metrics.OptimizationRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("optimize: save run: %w", err)
	}

	metrics.OptimizationRuns.WithLabelValues("ok").Inc()
	if res.HasBest {
		metrics.BestDistance.WithLabelValues(inst.Name).Set(res.BestFitness)
	}

	if s.Cache != nil {
		if cerr := s.Cache.Put(ctx, fp, run); cerr != nil {
			log.Printf("req_id=%s op=optimize run_id=%s cache_put_err=%v", obs.RequestID(ctx), runID, cerr)
		}
	}
	if s.Notifier != nil {
		if nerr := s.Notifier.Notify(ctx, run); nerr != nil {
			log.Printf("req_id=%s op=optimize run_id=%s notify_err=%v", obs.RequestID(ctx), runID, nerr)
		}
	}

	routes, err := domain.SplitRoutes(inst, run.BestOrder)
	if err != nil {
		return nil, fmt.Errorf("optimize: split best route: %w", err)
	}

	return &OptimizeResult{Run: run, Instance: inst, Routes: routes}, nil
}

// Run loads a stored run together with its instance and best route split.
// Instance and Routes stay empty when the run's instance is no longer stored
// with the data the run was computed on: inline instances, later upserts and
// name clashes.
func (s *OptimizationService) Run(ctx context.Context, runID string) (*OptimizeResult, error) {
	run, err := s.Runs.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run %q: %w", runID, err)
	}
	inst, err := s.Instances.GetInstance(ctx, run.InstanceName)
	if errors.Is(err, ports.ErrNotFound) {
		return &OptimizeResult{Run: run}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %q: instance: %w", runID, err)
	}
	if run.InstanceFingerprint != InstanceFingerprint(inst) {
		log.Printf("req_id=%s op=get_run run_id=%s instance=%s msg=%q", obs.RequestID(ctx), runID, run.InstanceName, "stored instance changed since the run")
		return &OptimizeResult{Run: run}, nil
	}
	routes, err := domain.SplitRoutes(inst, run.BestOrder)
	if err != nil {
		return nil, fmt.Errorf("get run %q: %w", runID, err)
	}
	return &OptimizeResult{Run: run, Instance: inst, Routes: routes}, nil
}

// ResolveInstance returns the inline instance of req or loads the named one.
func (s *OptimizationService) ResolveInstance(ctx context.Context, req OptimizeRequest) (*domain.ProblemInstance, error) {
	if req.Instance != nil {
		return req.Instance, nil
	}
	if req.InstanceName == "" {
		return nil, fmt.Errorf("optimize: %w", ErrInstanceRequired)
	}
	inst, err := s.Instances.GetInstance(ctx, req.InstanceName)
	if err != nil {
		return nil, fmt.Errorf("optimize: load instance %q: %w", req.InstanceName, err)
	}
	return inst, nil
}

func toRecord(snap ga.GenerationSnapshot) domain.GenerationRecord {
	return domain.GenerationRecord{
		Generation:  snap.Generation,
		BestFitness: snap.BestFitness,
		MinFitness:  snap.MinFitness,
		MeanFitness: snap.MeanFitness,
		Best:        snap.Best,
	}
}

func outcome(err error) string {
	switch {
	case ga.IsConfigError(err):
		return "config_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
