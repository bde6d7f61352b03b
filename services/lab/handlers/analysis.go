// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers contains the gin HTTP handlers for the lab service.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab/observability"
)

// HandleAnalyze runs the analysis pipeline for one request.
//
// The pipeline encodes its own failure policy: a degraded result still
// reports ok true, and only invalid input or an internal fault reports ok
// false. The HTTP layer maps ok false to 400 and everything else to 200.
func HandleAnalyze(svc analysis.Service, metrics *observability.LabMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analysis.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Warn("Rejected a malformed analysis request", "error", err)
			if metrics != nil {
				metrics.AnalysisRequestsTotal.WithLabelValues("invalid").Inc()
			}
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errorMessage": "invalid request body: " + err.Error()})
			return
		}

		start := time.Now()
		result := svc.RunAnalysis(c.Request.Context(), req)
		recordAnalysisMetrics(metrics, result, time.Since(start))

		if !result.OK {
			c.JSON(http.StatusBadRequest, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func recordAnalysisMetrics(metrics *observability.LabMetrics, result analysis.AnalysisResult, elapsed time.Duration) {
	if metrics == nil {
		return
	}
	status := "success"
	switch {
	case !result.OK:
		status = "invalid"
	case result.Degraded:
		status = "degraded"
		metrics.DegradedTotal.Inc()
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(status).Inc()
	metrics.AnalysisDurationSeconds.WithLabelValues(status).Observe(elapsed.Seconds())
	if result.OK {
		metrics.TensionLevel.Observe(float64(result.TensionLevel))
	}
	for _, w := range result.Warnings {
		metrics.WarningsTotal.WithLabelValues(warningKind(w)).Inc()
	}
}

// warningKind buckets a Regla de Oro warning for metrics. The warning texts
// are configuration, so match loosely and fall back to "other".
func warningKind(warning string) string {
	switch {
	case strings.Contains(warning, "tensión dialéctica"):
		return "low_tension"
	case strings.Contains(warning, "definitivas"):
		return "definitive"
	case strings.Contains(warning, "Exceso de afirmación"):
		return "agreement"
	default:
		return "other"
	}
}
