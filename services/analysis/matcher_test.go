// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
)

func testSnapshot(t *testing.T) graph.Snapshot {
	t.Helper()
	store := graph.NewStore(
		[]graph.ConceptNode{
			{ID: "miedo", Label: "Miedo", Axis: "control", Description: "ontología de la amenaza"},
			{ID: "legitimidad", Label: "Legitimidad", Axis: "poder", Description: "narrativas y verdad"},
			{ID: "miedo_existencial", Label: "Miedo Existencial", Axis: "control", Description: "angustia radical"},
			{ID: "verdad", Label: "Verdad", Axis: "poder", Description: "autoridad epistémica"},
		},
		[]graph.SocraticQuestion{
			{ID: "q1", Text: "¿Qué legitima al que manda?", Axis: "poder", RelatedNodeIDs: []string{"legitimidad"}},
			{ID: "q2", Text: "¿A qué le temes realmente?", Axis: "control", RelatedNodeIDs: []string{"miedo"}},
			{ID: "q3", Text: "¿Quién decide qué es verdad?", Axis: "poder", RelatedNodeIDs: []string{"verdad"}},
		},
		nil,
	)
	return store.Snapshot()
}

func TestMatchNodes_BracketTokensResolveByIDAndLabel(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	ids, axes := m.MatchNodes("Analiza [miedo] y [Legitimidad]", snap)
	assert.ElementsMatch(t, []string{"miedo", "legitimidad"}, ids)
	assert.ElementsMatch(t, []string{"control", "poder"}, axes)
}

func TestMatchNodes_BracketTokensAreCaseInsensitive(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	upper, _ := m.MatchNodes("[MIEDO]", snap)
	lower, _ := m.MatchNodes("[miedo]", snap)
	assert.Equal(t, lower, upper)
	require.Len(t, upper, 1)
	assert.Equal(t, "miedo", upper[0])
}

func TestMatchNodes_UnresolvableTokensAreDropped(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	ids, axes := m.MatchNodes("[inexistente] y [miedo]", snap)
	assert.Equal(t, []string{"miedo"}, ids)
	assert.Equal(t, []string{"control"}, axes)
}

func TestMatchNodes_BracketMatchSuppressesFallbackScan(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	// "verdad" appears as a free substring but the bracket resolution
	// already matched, so the fallback must not run.
	ids, _ := m.MatchNodes("[miedo] y la verdad", snap)
	assert.Equal(t, []string{"miedo"}, ids)
}

func TestMatchNodes_SubstringFallbackOverMatches(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	// "intermiedoso" contains "miedo" as a plain substring; the loose
	// policy matches it even though the user wrote an unrelated word.
	ids, _ := m.MatchNodes("me siento intermiedoso hoy", snap)
	assert.Contains(t, ids, "miedo")
}

func TestMatchNodes_WordBoundaryStrategyRejectsEmbeddedSubstrings(t *testing.T) {
	m := NewMatcher(MatchWordBoundary)
	snap := testSnapshot(t)

	ids, _ := m.MatchNodes("me siento intermiedoso hoy", snap)
	assert.NotContains(t, ids, "miedo")

	ids, _ = m.MatchNodes("el miedo me gobierna", snap)
	assert.Contains(t, ids, "miedo")
}

func TestMatchNodes_NoFalsePositives(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	ids, axes := m.MatchNodes("texto sin relación alguna", snap)
	assert.Empty(t, ids)
	assert.Empty(t, axes)
}

func TestMatchNodes_EmptyInput(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	ids, axes := m.MatchNodes("", snap)
	assert.Empty(t, ids)
	assert.Empty(t, axes)
}

func TestMatchNodes_DuplicateTokensYieldOneMatch(t *testing.T) {
	m := NewMatcher(MatchSubstring)
	snap := testSnapshot(t)

	ids, axes := m.MatchNodes("[miedo] [Miedo] [MIEDO]", snap)
	assert.Equal(t, []string{"miedo"}, ids)
	assert.Equal(t, []string{"control"}, axes)
}
