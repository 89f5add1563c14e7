package api

import (
	"fleet-route-optimizer/internal/api/handlers"
	"fleet-route-optimizer/internal/platform/metrics"
	"fleet-route-optimizer/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(instances ports.InstanceRepository, opt *handlers.OptimizationHandler, store handlers.Pinger) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Store: store}
	instHandler := &handlers.InstanceHandler{Repo: instances}

	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/instances", instHandler.Instances)
	mux.HandleFunc("/instances/generate", instHandler.Generate)
	mux.HandleFunc("/optimizations", opt.Create)
	mux.HandleFunc("/optimizations/{id}", opt.Get)
	mux.HandleFunc("/optimizations/{id}/route.png", opt.Route)
	mux.HandleFunc("/optimizations/{id}/stream", opt.Stream)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
