package main

import (
	"context"
	"errors"
	"flag"
	"fleet-route-optimizer/internal/adapters/render"
	"fleet-route-optimizer/internal/adapters/repositories"
	"fleet-route-optimizer/internal/config"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ga"
	"fleet-route-optimizer/internal/services"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
)

type options struct {
	configPath   string
	instancePath string
	instanceName string
	customers    int
	seed         int64
	generations  int
	population   int
	workers      int
	pngPath      string
	framesDir    string
	plotPath     string
}

// cvrp optimizes one instance from the command line and prints one line per
// generation.
func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML file of GA parameters")
	flag.StringVar(&o.instancePath, "instances", "", "JSON seed file to read the instance from (default: random instance)")
	flag.StringVar(&o.instanceName, "name", "", "instance name within -instances (default: first by name)")
	flag.IntVar(&o.customers, "customers", 100, "customers of the random instance")
	flag.Int64Var(&o.seed, "seed", -1, "random seed for instance and GA (default: config seed)")
	flag.IntVar(&o.generations, "generations", -1, "override generations")
	flag.IntVar(&o.population, "population", -1, "override population size")
	flag.IntVar(&o.workers, "workers", -1, "override evaluation workers")
	flag.StringVar(&o.pngPath, "png", "", "write the best route to this PNG file")
	flag.StringVar(&o.framesDir, "frames", "", "write one route PNG per generation into this directory")
	flag.StringVar(&o.plotPath, "plot", "", "write the convergence curve to this PNG file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, o options, out io.Writer) error {
	cfg, err := config.LoadGA(o.configPath)
	if err != nil {
		return err
	}
	if o.seed >= 0 {
		cfg.Seed = o.seed
	}
	if o.generations >= 0 {
		cfg.Generations = o.generations
	}
	if o.population >= 0 {
		cfg.PopulationSize = o.population
	}
	if o.workers >= 0 {
		cfg.Workers = o.workers
	}

	inst, err := loadInstance(ctx, o, cfg.Seed)
	if err != nil {
		return err
	}

	engine, err := ga.New(cfg)
	if err != nil {
		return err
	}

	renderer := render.NewPlotRenderer()
	if o.framesDir != "" {
		if err := os.MkdirAll(o.framesDir, 0o755); err != nil {
			return fmt.Errorf("create frames dir: %w", err)
		}
	}

	var frameErr error
	history := make([]domain.GenerationRecord, 0, cfg.Generations)
	res, err := engine.Run(ctx, inst, func(s ga.GenerationSnapshot) {
		fmt.Fprintf(out, "Generation %d: Best Fitness = %v\n", s.Generation, s.BestFitness)
		history = append(history, domain.GenerationRecord{
			Generation:  s.Generation,
			BestFitness: s.BestFitness,
			MinFitness:  s.MinFitness,
			MeanFitness: s.MeanFitness,
			Best:        s.Best,
		})
		if o.framesDir != "" && frameErr == nil {
			path := filepath.Join(o.framesDir, fmt.Sprintf("gen_%04d.png", s.Generation))
			frameErr = writePNG(path, func(w io.Writer) error {
				return renderer.RenderRoute(w, inst, s.Best, fmt.Sprintf("Generation %d", s.Generation))
			})
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if frameErr != nil {
		return frameErr
	}
	if !res.HasBest {
		fmt.Fprintln(out, "no generations run")
		return nil
	}

	plans, err := domain.SplitRoutes(inst, res.Best)
	if err != nil {
		return err
	}
	baseline, err := services.BaselineDistance(inst)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Best route: distance=%.2f trips=%d evaluations=%d nearest_neighbor=%.2f duration=%s\n",
		res.BestFitness, len(plans), res.Evaluations, baseline, res.Duration)
	for _, p := range plans {
		note := ""
		if p.Overloaded {
			note = " overloaded"
		}
		fmt.Fprintf(out, "  truck %d: load=%d/%d distance=%.2f stops=%v%s\n", p.TruckID, p.Load, inst.Capacity, p.Distance, p.Stops, note)
	}

	if o.pngPath != "" {
		if err := writePNG(o.pngPath, func(w io.Writer) error {
			return renderer.RenderRoute(w, inst, res.Best, fmt.Sprintf("Best route: %.2f", res.BestFitness))
		}); err != nil {
			return err
		}
	}
	if o.plotPath != "" {
		if err := writePNG(o.plotPath, func(w io.Writer) error {
			return renderer.RenderConvergence(w, history, inst.Name)
		}); err != nil {
			return err
		}
	}
	return nil
}

// loadInstance generates a random instance, or reads the -instances file into
// an in-memory repository and picks -name from it.
func loadInstance(ctx context.Context, o options, seed int64) (*domain.ProblemInstance, error) {
	if o.instancePath == "" {
		return services.GenerateInstance(rand.New(rand.NewSource(seed)), services.GenerateInstanceRequest{
			Customers: o.customers,
		})
	}

	repo := repositories.NewMemoryRepository()
	if err := repositories.SeedFromJSON(ctx, repo, o.instancePath); err != nil {
		return nil, err
	}
	if o.instanceName != "" {
		return repo.GetInstance(ctx, o.instanceName)
	}

	all, err := repo.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no instances in %s", o.instancePath)
	}
	return all[0], nil
}

func writePNG(path string, draw func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return draw(f)
}
