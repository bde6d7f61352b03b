// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lab assembles the HTTP service around the analysis pipeline.
//
// It wires the concept graph, the tension engine, the LLM backend, and the
// optional persistence stores into a gin router, sets up OTLP tracing and
// Prometheus metrics, and runs the server with graceful shutdown.
package lab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
	"github.com/sistemaproyectomunidal/platonia-lab/services/catalog"
	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab/observability"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab/routes"
	"github.com/sistemaproyectomunidal/platonia-lab/services/labstore"
)

const serviceName = "lagrange-lab"

// Service runs the lab HTTP server until the context is canceled.
type Service interface {
	Run(ctx context.Context) error
}

// Config carries everything New needs to assemble the server.
type Config struct {
	// Port the HTTP server listens on. Zero means 8080.
	Port int

	// Analysis is the pipeline service. Required.
	Analysis analysis.Service

	// Graph backs the concept map endpoints. Required.
	Graph *graph.Store

	// Demos and Catalog are optional stores; absent endpoints degrade.
	Demos   *labstore.Store
	Catalog *catalog.Store

	// Metrics is optional; nil disables metric recording (the /metrics
	// endpoint still serves the default registry).
	Metrics *observability.LabMetrics

	// OTLPEndpoint enables trace export when non-empty, e.g.
	// "otel-collector:4317".
	OTLPEndpoint string

	// ShutdownGrace bounds graceful shutdown. Zero means 10 seconds.
	ShutdownGrace time.Duration
}

type service struct {
	cfg Config
}

var _ Service = (*service)(nil)

func applyConfigDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
}

// New validates the config and builds the service.
func New(cfg Config) (Service, error) {
	if cfg.Analysis == nil {
		return nil, fmt.Errorf("lab service requires an analysis service")
	}
	if cfg.Graph == nil {
		return nil, fmt.Errorf("lab service requires a concept graph store")
	}
	applyConfigDefaults(&cfg)
	return &service{cfg: cfg}, nil
}

// Run starts the HTTP server and blocks until ctx is canceled or the server
// fails. Tracing cleanup happens on the way out.
func (s *service) Run(ctx context.Context) error {
	cleanup, err := initTracer(ctx, s.cfg.OTLPEndpoint)
	if err != nil {
		slog.Warn("Tracing disabled", "error", err)
	} else {
		defer cleanup()
	}

	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	routes.SetupRoutes(router, routes.Deps{
		Analysis: s.cfg.Analysis,
		Graph:    s.cfg.Graph,
		Demos:    s.cfg.Demos,
		Catalog:  s.cfg.Catalog,
		Metrics:  s.cfg.Metrics,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting the lab server", "port", s.cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("lab server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down the lab server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("lab server shutdown: %w", err)
	}
	return nil
}

// initTracer configures the OTLP/gRPC trace exporter. An empty endpoint
// means tracing stays on the default no-op provider.
func initTracer(ctx context.Context, endpoint string) (func(), error) {
	if endpoint == "" {
		return nil, fmt.Errorf("no OTLP endpoint configured")
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	slog.Info("Tracing enabled", "endpoint", endpoint)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Failed to shut down the tracer provider", "error", err)
		}
	}, nil
}
