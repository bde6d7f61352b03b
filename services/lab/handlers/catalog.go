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

	"github.com/sistemaproyectomunidal/platonia-lab/services/catalog"
)

// ListCorpus returns published corpus entries without bodies. The catalog
// store is optional; without one the endpoint reports 503.
func ListCorpus(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
			return
		}
		entries, err := store.ListCorpus(c.Request.Context())
		if err != nil {
			slog.Error("Failed to list corpus entries", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list the corpus"})
			return
		}
		if entries == nil {
			entries = []catalog.CorpusEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// GetCorpusEntry returns one published essay with its full content.
func GetCorpusEntry(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
			return
		}
		entry, err := store.GetCorpusBySlug(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "corpus entry not found"})
			return
		}
		if err != nil {
			slog.Error("Failed to fetch a corpus entry", "error", err, "slug", c.Param("slug"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch the entry"})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// ListEpisodes returns published podcast episodes without transcripts.
func ListEpisodes(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
			return
		}
		episodes, err := store.ListEpisodes(c.Request.Context())
		if err != nil {
			slog.Error("Failed to list episodes", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list episodes"})
			return
		}
		if episodes == nil {
			episodes = []catalog.Episode{}
		}
		c.JSON(http.StatusOK, gin.H{"episodes": episodes})
	}
}

// GetEpisode returns one published episode, transcript included.
func GetEpisode(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
			return
		}
		number, err := strconv.Atoi(c.Param("number"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "episode number must be an integer"})
			return
		}
		episode, err := store.GetEpisode(c.Request.Context(), number)
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "episode not found"})
			return
		}
		if err != nil {
			slog.Error("Failed to fetch an episode", "error", err, "number", number)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch the episode"})
			return
		}
		c.JSON(http.StatusOK, episode)
	}
}
