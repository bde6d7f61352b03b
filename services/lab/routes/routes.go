// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
	"github.com/sistemaproyectomunidal/platonia-lab/services/catalog"
	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab/handlers"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab/observability"
	"github.com/sistemaproyectomunidal/platonia-lab/services/labstore"
)

// Deps carries the collaborators the route handlers need. Demos and Catalog
// are optional; their endpoints degrade gracefully when absent.
type Deps struct {
	Analysis analysis.Service
	Graph    *graph.Store
	Demos    *labstore.Store
	Catalog  *catalog.Store
	Metrics  *observability.LabMetrics
}

// SetupRoutes registers every lab endpoint on the router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		lab := v1.Group("/lab")
		{
			lab.POST("/analyze", handlers.HandleAnalyze(deps.Analysis, deps.Metrics))
			if deps.Demos != nil {
				demos := lab.Group("/demos")
				{
					demos.POST("", handlers.CreateDemo(deps.Demos))
					demos.GET("", handlers.ListDemos(deps.Demos))
					demos.GET("/:id", handlers.GetDemo(deps.Demos))
					demos.DELETE("/:id", handlers.DeleteDemo(deps.Demos))
				}
			}
		}

		mapGroup := v1.Group("/map")
		{
			mapGroup.GET("/nodes", handlers.GetMapNodes(deps.Graph))
			mapGroup.GET("/questions", handlers.GetMapQuestions(deps.Graph))
		}

		v1.GET("/corpus", handlers.ListCorpus(deps.Catalog))
		v1.GET("/corpus/:slug", handlers.GetCorpusEntry(deps.Catalog))

		podcast := v1.Group("/podcast")
		{
			podcast.GET("/episodes", handlers.ListEpisodes(deps.Catalog))
			podcast.GET("/episodes/:number", handlers.GetEpisode(deps.Catalog))
		}
	}
}
