// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package labstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "lab.db"))
	require.NoError(t, err)
	return store
}

func sampleRecord(prompt string) analysis.Record {
	return analysis.Record{
		Prompt:         prompt,
		Summary:        "Propuesta: 2 preguntas relevantes sobre los ejes control, poder",
		Axes:           []string{"control", "poder"},
		MatchedNodeIDs: []string{"legitimidad", "miedo"},
		Questions: []analysis.GeneratedQuestion{
			{ID: "q1", Text: "¿Qué legitima al que manda?", Axis: "poder"},
		},
		AIResponse: "Un análisis denso.",
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(context.Background(), sampleRecord("analiza [miedo]"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	demo, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "analiza [miedo]", demo.Prompt)
	assert.Equal(t, []string{"control", "poder"}, demo.Axes)
	require.Len(t, demo.Questions, 1)
	assert.Equal(t, "q1", demo.Questions[0].ID)
	assert.False(t, demo.CreatedAt.IsZero())
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Save(context.Background(), sampleRecord(fmt.Sprintf("prompt-%d", i)))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	page, total, err := store.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "prompt-4", page[0].Prompt)

	rest, _, err := store.List(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, "prompt-0", rest[2].Prompt)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(context.Background(), sampleRecord("borrable"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), id))
	assert.ErrorIs(t, store.Delete(context.Background(), id), ErrNotFound)

	_, err = store.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePreservesDegradedFlag(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("degradado")
	rec.Degraded = true
	id, err := store.Save(context.Background(), rec)
	require.NoError(t, err)

	demo, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, demo.Degraded)
}
