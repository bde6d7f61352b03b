// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
)

// GetMapNodes returns the concept map: nodes, edges, and the fixed axis set.
// An optional ?axis= query filters nodes to one axis.
func GetMapNodes(store *graph.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := store.Snapshot()

		nodes := snap.Nodes()
		if axis := c.Query("axis"); axis != "" {
			nodes = snap.NodesByAxis(axis)
		}
		if nodes == nil {
			nodes = []graph.ConceptNode{}
		}

		c.JSON(http.StatusOK, gin.H{
			"nodes": nodes,
			"edges": snap.Edges(),
			"axes":  graph.Axes(),
		})
	}
}

// GetMapQuestions returns the socratic question catalog. An optional ?node=
// query filters to questions referencing that node id.
func GetMapQuestions(store *graph.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := store.Snapshot()

		questions := snap.Questions()
		if nodeID := c.Query("node"); nodeID != "" {
			questions = snap.QuestionsByNode(nodeID)
		}
		if questions == nil {
			questions = []graph.SocraticQuestion{}
		}

		c.JSON(http.StatusOK, gin.H{"questions": questions})
	}
}
