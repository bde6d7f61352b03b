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

var aggregateFixture = []graph.SocraticQuestion{
	{ID: "q1", Text: "¿Qué legitima al que manda?", Axis: "poder", RelatedNodeIDs: []string{"legitimidad"}},
	{ID: "q2", Text: "¿A qué le temes realmente?", Axis: "control", RelatedNodeIDs: []string{"miedo", "amenaza"}},
	{ID: "q3", Text: "¿Quién decide qué es verdad?", Axis: "poder", RelatedNodeIDs: []string{"verdad"}},
	{ID: "q4", Text: "¿Qué queda fuera del relato?", Axis: "poder", RelatedNodeIDs: nil},
}

func TestAggregateQuestions_StableFilterByRelatedNodes(t *testing.T) {
	got := aggregateQuestions([]string{"verdad", "miedo"}, aggregateFixture)

	// Storage order preserved: q2 before q3 even though "verdad" was
	// listed first in the matched set.
	require.Len(t, got, 2)
	assert.Equal(t, "q2", got[0].ID)
	assert.Equal(t, "q3", got[1].ID)
}

func TestAggregateQuestions_CaseInsensitiveNodeIDs(t *testing.T) {
	got := aggregateQuestions([]string{"MIEDO"}, aggregateFixture)
	require.Len(t, got, 1)
	assert.Equal(t, "q2", got[0].ID)
}

func TestAggregateQuestions_FallbackOnNoIntersection(t *testing.T) {
	got := aggregateQuestions([]string{"inexistente"}, aggregateFixture)
	require.Len(t, got, 2)
	assert.Equal(t, "q1", got[0].ID)
	assert.Equal(t, "q2", got[1].ID)
}

func TestAggregateQuestions_FallbackOnEmptyMatchSet(t *testing.T) {
	got := aggregateQuestions(nil, aggregateFixture)
	require.Len(t, got, 2)
	assert.Equal(t, "q1", got[0].ID)
}

func TestAggregateQuestions_NeverEmptyWhenQuestionsExist(t *testing.T) {
	single := aggregateFixture[:1]
	got := aggregateQuestions(nil, single)
	assert.Len(t, got, 1)
}

func TestAggregateQuestions_EmptyCatalog(t *testing.T) {
	got := aggregateQuestions([]string{"miedo"}, nil)
	assert.Empty(t, got)
}
