package main

import (
	"context"
	"errors"
	"fleet-route-optimizer/internal/adapters/cache"
	"fleet-route-optimizer/internal/adapters/notify"
	"fleet-route-optimizer/internal/adapters/publisher"
	"fleet-route-optimizer/internal/adapters/render"
	"fleet-route-optimizer/internal/adapters/repositories"
	"fleet-route-optimizer/internal/api"
	"fleet-route-optimizer/internal/api/handlers"
	"fleet-route-optimizer/internal/config"
	"fleet-route-optimizer/internal/platform/metrics"
	"fleet-route-optimizer/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, Redis, NATS, webhook) behind ports and
// starts the HTTP server.
func main() {
	config.LoadEnv()
	settings := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repositories.OpenStore(ctx, settings.DatabaseURL, settings.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	log.Printf("store ready dialect=%s", store.Dialect)

	// Seed demo data on startup for local runs.
	if err := repositories.SeedFromJSON(ctx, store.Instances, settings.SeedPath); err != nil {
		log.Printf("seed skipped path=%s err=%v", settings.SeedPath, err)
	}

	defaults, err := config.LoadGA(settings.GAConfigPath)
	if err != nil {
		log.Fatal(err)
	}

	metrics.RegisterDefault()

	broker := publisher.NewBroker()
	targets := publisher.Fanout{broker}
	svc := &services.OptimizationService{Instances: store.Instances, Runs: store.Runs}

	if settings.RedisURL != "" {
		rp, err := publisher.NewRedisPublisherFromURL(settings.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rp.Close()
		targets = append(targets, rp)

		rc, err := cache.NewRedisResultCacheFromURL(settings.RedisURL, 24*time.Hour)
		if err != nil {
			log.Fatal(err)
		}
		defer rc.Close()
		svc.Cache = rc
		log.Printf("redis enabled for snapshots and result cache")
	} else {
		svc.Cache = cache.NewSQLResultCache(store.Runs)
	}

	if settings.NatsURL != "" {
		np, err := publisher.ConnectNATS(settings.NatsURL)
		if err != nil {
			log.Printf("nats unavailable url=%s err=%v", settings.NatsURL, err)
		} else {
			defer np.Close()
			targets = append(targets, np)
			log.Printf("nats enabled url=%s", settings.NatsURL)
		}
	}
	svc.Publisher = targets

	if settings.WebhookURL != "" {
		n, err := notify.NewWebhookNotifier(settings.WebhookURL, notify.WithSecret(config.Get("WEBHOOK_SECRET", "")))
		if err != nil {
			log.Fatal(err)
		}
		svc.Notifier = n
	}

	opt := &handlers.OptimizationHandler{
		Service:    svc,
		Subscriber: broker,
		Renderer:   render.NewPlotRenderer(),
		Limiter:    rate.NewLimiter(rate.Limit(settings.RateLimitRPS), settings.RateBurst),
		Defaults:   defaults,
	}
	router := api.NewRouter(store.Instances, opt, store.DB)

	// WriteTimeout stays generous for synchronous optimization requests.
	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening addr=:%s", settings.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// running async optimizations are cancelled, not awaited to completion
		return errors.Join(err, opt.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
