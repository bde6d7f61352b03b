// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
	"github.com/sistemaproyectomunidal/platonia-lab/services/labstore"
)

// demoRequest is the payload for an explicit demo save, used by clients that
// run the local-only matching demo and record the outcome themselves.
type demoRequest struct {
	Prompt       string                       `json:"prompt" binding:"required"`
	Summary      string                       `json:"summary"`
	Axes         []string                     `json:"axes"`
	MatchedNodes []string                     `json:"matchedNodes"`
	Questions    []analysis.GeneratedQuestion `json:"questions"`
	AIResponse   string                       `json:"aiResponse"`
}

// CreateDemo stores one demo run.
func CreateDemo(store *labstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req demoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		id, err := store.Save(c.Request.Context(), analysis.Record{
			Prompt:         req.Prompt,
			Summary:        req.Summary,
			Axes:           req.Axes,
			MatchedNodeIDs: req.MatchedNodes,
			Questions:      req.Questions,
			AIResponse:     req.AIResponse,
		})
		if err != nil {
			slog.Error("Failed to save a demo run", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save the demo"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// ListDemos returns stored demos, newest first, with limit/offset paging.
func ListDemos(store *labstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		demos, total, err := store.List(c.Request.Context(), limit, offset)
		if err != nil {
			slog.Error("Failed to list demo runs", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list demos"})
			return
		}
		if demos == nil {
			demos = []labstore.LabDemo{}
		}
		c.JSON(http.StatusOK, gin.H{"demos": demos, "total": total})
	}
}

// GetDemo fetches one demo by id.
func GetDemo(store *labstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		demo, err := store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, labstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "demo not found"})
			return
		}
		if err != nil {
			slog.Error("Failed to fetch a demo run", "error", err, "id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch the demo"})
			return
		}
		c.JSON(http.StatusOK, demo)
	}
}

// DeleteDemo removes one demo by id.
func DeleteDemo(store *labstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.Delete(c.Request.Context(), c.Param("id"))
		if errors.Is(err, labstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "demo not found"})
			return
		}
		if err != nil {
			slog.Error("Failed to delete a demo run", "error", err, "id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete the demo"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
