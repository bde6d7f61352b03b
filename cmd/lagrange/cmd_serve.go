// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
	"github.com/sistemaproyectomunidal/platonia-lab/services/catalog"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab/observability"
	"github.com/sistemaproyectomunidal/platonia-lab/services/labstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lab HTTP server",
	Long: `Serve starts the analysis pipeline, the concept map endpoints, and the
corpus/podcast catalog behind a single HTTP server. Demos and the catalog
need a database (DATABASE_URL or LAGRANGE_SQLITE_PATH); without one those
endpoints report the store as unavailable.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogging("lagrange-lab")
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, questionsPath, err := buildGraphStore()
	if err != nil {
		return err
	}
	if questionsPath != "" {
		go func() {
			if err := store.Watch(ctx, questionsPath, 500*time.Millisecond); err != nil {
				slog.Warn("Question file watcher stopped", "error", err)
			}
		}()
	}

	demos, corpus, db, err := openDatabases()
	if err != nil {
		return err
	}
	if db != nil {
		// Database rows win over the local dataset when present.
		if err := store.LoadFromDatabase(ctx, db); err != nil {
			slog.Warn("Keeping the embedded concept graph", "error", err)
		}
	}

	svc, err := buildAnalysisService(store, recorderFor(demos))
	if err != nil {
		return err
	}

	server, err := lab.New(lab.Config{
		Port:         getEnvInt("LAGRANGE_PORT", 8080),
		Analysis:     svc,
		Graph:        store,
		Demos:        demos,
		Catalog:      corpus,
		Metrics:      observability.InitMetrics(),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	})
	if err != nil {
		return err
	}

	return server.Run(ctx)
}

// recorderFor avoids handing the pipeline a non-nil interface wrapping a
// nil store.
func recorderFor(s *labstore.Store) analysis.Recorder {
	if s == nil {
		return nil
	}
	return s
}

// openDatabases connects the demo and catalog stores. Postgres wins when
// DATABASE_URL is set, then the SQLite fallback; neither means both stores
// stay nil and their endpoints degrade. The gorm handle is returned only for
// Postgres, where the concept graph tables may also live.
func openDatabases() (*labstore.Store, *catalog.Store, *gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		demos, err := labstore.New(db)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("prepare demo store: %w", err)
		}
		corpus, err := catalog.New(db)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("prepare catalog store: %w", err)
		}
		slog.Info("Using Postgres for demos and the catalog")
		return demos, corpus, db, nil
	}

	if path := os.Getenv("LAGRANGE_SQLITE_PATH"); path != "" {
		demos, err := labstore.OpenSQLite(path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open demo store: %w", err)
		}
		corpus, err := catalog.OpenSQLite(path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open catalog store: %w", err)
		}
		slog.Info("Using SQLite for demos and the catalog", "path", path)
		return demos, corpus, nil, nil
	}

	slog.Warn("No database configured, demos and catalog endpoints are disabled")
	return nil, nil, nil, nil
}
