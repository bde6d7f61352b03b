// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	return store
}

func publishedEntry(slug string) CorpusEntry {
	return CorpusEntry{
		ID:      uuid.NewString(),
		Slug:    slug,
		Title:   "Sobre el miedo",
		Content: "El miedo estructura la experiencia.",
		Excerpt: "El miedo estructura...",
		Axes:    []string{"L1"},
		Status:  StatusPublished,
	}
}

func TestListCorpusOnlyPublished(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertCorpus(ctx, publishedEntry("sobre-el-miedo")))

	draft := publishedEntry("borrador")
	draft.Status = StatusDraft
	require.NoError(t, store.UpsertCorpus(ctx, draft))

	entries, err := store.ListCorpus(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sobre-el-miedo", entries[0].Slug)
	// Listing omits the body.
	assert.Empty(t, entries[0].Content)
}

func TestGetCorpusBySlugIncludesContent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertCorpus(ctx, publishedEntry("sobre-el-miedo")))

	entry, err := store.GetCorpusBySlug(ctx, "sobre-el-miedo")
	require.NoError(t, err)
	assert.Equal(t, "El miedo estructura la experiencia.", entry.Content)
	assert.Equal(t, []string{"L1"}, entry.Axes)
}

func TestGetCorpusBySlugHidesDrafts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	draft := publishedEntry("borrador")
	draft.Status = StatusDraft
	require.NoError(t, store.UpsertCorpus(ctx, draft))

	_, err := store.GetCorpusBySlug(ctx, "borrador")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetCorpusBySlug(ctx, "inexistente")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertCorpusUpdatesExistingSlug(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertCorpus(ctx, publishedEntry("sobre-el-miedo")))

	updated := publishedEntry("sobre-el-miedo")
	updated.Title = "Sobre el miedo, revisado"
	require.NoError(t, store.UpsertCorpus(ctx, updated))

	entries, err := store.ListCorpus(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sobre el miedo, revisado", entries[0].Title)
}

func TestEpisodes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	episodes := []Episode{
		{ID: uuid.NewString(), EpisodeNumber: 2, Title: "Control", Transcript: "t2",
			Published: true, PublishedAt: time.Now()},
		{ID: uuid.NewString(), EpisodeNumber: 1, Title: "Miedo", Transcript: "t1",
			Published: true, PublishedAt: time.Now()},
		{ID: uuid.NewString(), EpisodeNumber: 3, Title: "Inédito", Published: false},
	}
	for _, e := range episodes {
		require.NoError(t, store.db.WithContext(ctx).Create(&e).Error)
	}

	listed, err := store.ListEpisodes(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 1, listed[0].EpisodeNumber)
	assert.Equal(t, 2, listed[1].EpisodeNumber)
	assert.Empty(t, listed[0].Transcript)

	ep, err := store.GetEpisode(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "t1", ep.Transcript)

	_, err = store.GetEpisode(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}
