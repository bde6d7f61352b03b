// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the lab service.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "lagrange"
	labSubsystem     = "lab"
)

// LabMetrics holds all Prometheus metrics for lab analysis operations.
// Initialize once at startup via InitMetrics.
type LabMetrics struct {
	// AnalysisRequestsTotal counts analysis requests.
	// Labels: status (success, degraded, invalid, error)
	AnalysisRequestsTotal *prometheus.CounterVec

	// AnalysisDurationSeconds measures end-to-end analysis latency.
	// Labels: status
	AnalysisDurationSeconds *prometheus.HistogramVec

	// DegradedTotal counts analyses served from canned fallback content
	// because the model was unreachable.
	DegradedTotal prometheus.Counter

	// TensionLevel observes the tension score distribution.
	TensionLevel prometheus.Histogram

	// WarningsTotal counts Regla de Oro warnings attached to results.
	// Labels: kind (low_tension, definitive, agreement)
	WarningsTotal *prometheus.CounterVec

	// PersistenceErrorsTotal counts failed saves of analysis results.
	PersistenceErrorsTotal prometheus.Counter
}

// DefaultMetrics is the singleton instance, set by InitMetrics.
var DefaultMetrics *LabMetrics

// InitMetrics creates and registers all lab metrics. Call once at startup;
// a second call panics on duplicate registration.
func InitMetrics() *LabMetrics {
	DefaultMetrics = &LabMetrics{
		AnalysisRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: labSubsystem,
				Name:      "analysis_requests_total",
				Help:      "Total analysis requests by outcome status",
			},
			[]string{"status"},
		),

		AnalysisDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: labSubsystem,
				Name:      "analysis_duration_seconds",
				Help:      "End-to-end analysis duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 30, 60},
			},
			[]string{"status"},
		),

		DegradedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: labSubsystem,
				Name:      "degraded_total",
				Help:      "Total analyses served from fallback content",
			},
		),

		TensionLevel: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: labSubsystem,
				Name:      "tension_level",
				Help:      "Distribution of tension scores (0-10)",
				Buckets:   prometheus.LinearBuckets(0, 1, 11),
			},
		),

		WarningsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: labSubsystem,
				Name:      "warnings_total",
				Help:      "Total Regla de Oro warnings by kind",
			},
			[]string{"kind"},
		),

		PersistenceErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: labSubsystem,
				Name:      "persistence_errors_total",
				Help:      "Total failed saves of analysis results",
			},
		),
	}
	return DefaultMetrics
}
