// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedded_LoadsDataset(t *testing.T) {
	s, err := NewEmbedded()
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.NotEmpty(t, snap.Nodes())
	assert.NotEmpty(t, snap.Questions())
	assert.NotEmpty(t, snap.Edges())

	// Every node must carry a known axis.
	for _, n := range snap.Nodes() {
		_, ok := AxisByID(n.Axis)
		assert.True(t, ok, "node %s has unknown axis %s", n.ID, n.Axis)
	}
}

func TestParseDataset_NormalizesDuckTypedQuestions(t *testing.T) {
	nodesJSON := []byte(`{"nodes":[{"id":"miedo","label":"Miedo","axis":"L1","description":"d"}]}`)
	questionsJSON := []byte(`{"questions":[
		{"id":"q1","text":"¿Por qué?","axis":"L1","relatedNodes":["miedo"]},
		{"id":"q2","question":"¿Quién decide?","related_axis":"L2","related_nodes":["control"]},
		{"id":"","text":"sin id"},
		{"id":"q3","axis":"L3"}
	]}`)

	nodes, questions, _, err := ParseDataset(nodesJSON, questionsJSON)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	// The empty-id and empty-text entries are dropped; both valid shapes
	// normalize into the canonical one.
	require.Len(t, questions, 2)
	assert.Equal(t, "¿Por qué?", questions[0].Text)
	assert.Equal(t, "L1", questions[0].Axis)
	assert.Equal(t, "¿Quién decide?", questions[1].Text)
	assert.Equal(t, "L2", questions[1].Axis)
	assert.Equal(t, []string{"control"}, questions[1].RelatedNodeIDs)
}

func TestParseDataset_DropsDuplicateNodeIDs(t *testing.T) {
	nodesJSON := []byte(`{"nodes":[
		{"id":"miedo","label":"Miedo","axis":"L1","description":"primero"},
		{"id":"MIEDO","label":"Otro","axis":"L2","description":"segundo"}
	]}`)

	nodes, _, _, err := ParseDataset(nodesJSON, nil)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Miedo", nodes[0].Label)
}

func TestSnapshot_Lookups(t *testing.T) {
	s := NewStore(
		[]ConceptNode{
			{ID: "miedo", Label: "Miedo", Axis: "L1"},
			{ID: "control", Label: "Control", Axis: "L2"},
			{ID: "vigilancia", Label: "Vigilancia", Axis: "L2"},
		},
		[]SocraticQuestion{
			{ID: "q1", Text: "t", Axis: "L2", RelatedNodeIDs: []string{"Control"}},
		},
		nil,
	)
	snap := s.Snapshot()

	n, ok := snap.NodeByID("MIEDO")
	require.True(t, ok)
	assert.Equal(t, "miedo", n.ID)

	n, ok = snap.NodeByLabel("  control ")
	require.True(t, ok)
	assert.Equal(t, "control", n.ID)

	_, ok = snap.NodeByID("desconocido")
	assert.False(t, ok)

	assert.Len(t, snap.NodesByAxis("l2"), 2)

	// Related-node comparison is case-insensitive both ways.
	qs := snap.QuestionsByNode("control")
	require.Len(t, qs, 1)
	assert.Equal(t, "q1", qs[0].ID)
}

func TestReplace_SnapshotIsolation(t *testing.T) {
	s := NewStore([]ConceptNode{{ID: "a", Label: "A", Axis: "L1"}}, nil, nil)
	old := s.Snapshot()

	s.Replace([]ConceptNode{{ID: "b", Label: "B", Axis: "L2"}}, nil, nil)

	// The old snapshot keeps the old data; new snapshots see the new graph.
	_, ok := old.NodeByID("a")
	assert.True(t, ok)
	_, ok = s.Snapshot().NodeByID("b")
	assert.True(t, ok)
	_, ok = s.Snapshot().NodeByID("a")
	assert.False(t, ok)
}

func TestAxisByID(t *testing.T) {
	a, ok := AxisByID("l3")
	require.True(t, ok)
	assert.Equal(t, "Legitimidad", a.Name)

	_, ok = AxisByID("L9")
	assert.False(t, ok)
}
