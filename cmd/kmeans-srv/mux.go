package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/config"
	"github.com/go-sod/kmeans/internal/httputil"
	"github.com/go-sod/kmeans/internal/kmeans"
	"github.com/go-sod/kmeans/internal/run"
	"github.com/go-sod/kmeans/internal/server"
)

// newMux wires the HTTP routes. history and metricsHandler may be nil.
func newMux(
	ctx context.Context,
	cfg *config.Config,
	provide cluster.ProvideFn,
	history run.Manager,
	metricsHandler http.Handler,
) (*http.ServeMux, error) {
	var (
		recorder run.Recorder
		lister   run.Lister
	)
	if history != nil {
		recorder, lister = history, history
	}

	kmeansHandler, err := kmeans.NewHandler(&cfg.KMeans, provide, recorder)
	if err != nil {
		return nil, fmt.Errorf("kmeans.NewHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/kmeans", httputil.CORS(cfg.KMeans.AllowedOrigins, kmeansHandler))
	mux.Handle("/api/runs", httputil.CORS(cfg.KMeans.AllowedOrigins, kmeans.NewRunsHandler(&cfg.KMeans, lister)))
	mux.Handle("/health", server.HandleHealth(ctx))
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}
	return mux, nil
}
