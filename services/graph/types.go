// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import "strings"

// ConceptNode is one labeled idea in the philosophical map.
//
// Invariants: ID is unique across the graph (case-insensitive) and every
// node belongs to exactly one axis. Nodes are populated once at load time
// and are read-only during analysis.
type ConceptNode struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Axis        string  `json:"axis"`
	Description string  `json:"description"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
}

// Edge links two concept nodes in the map. Edges are display metadata for
// the concept map; the analysis pipeline never traverses them.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind,omitempty"`
}

// SocraticQuestion is a pre-authored question associated with zero or more
// concept nodes. RelatedNodeIDs may reference ids that are absent from the
// graph; that is tolerated as "no match", never an error.
//
// This is the canonical shape. Source datasets are duck-typed (text vs
// question, relatedNodes vs related_nodes); normalization happens once, in
// ParseDataset, never downstream.
type SocraticQuestion struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Axis           string   `json:"axis"`
	RelatedNodeIDs []string `json:"relatedNodes"`
}

// RelatesTo reports whether the question references the given node id,
// compared case-insensitively.
func (q SocraticQuestion) RelatesTo(nodeID string) bool {
	for _, id := range q.RelatedNodeIDs {
		if strings.EqualFold(id, nodeID) {
			return true
		}
	}
	return false
}

// Axis describes one of the five thematic categories of the Lagrange system.
type Axis struct {
	ID          string
	Name        string
	Description string
}

// axes is the fixed Lagrange axis set. The order is significant: it is the
// presentation order used in prompts and summaries.
var axes = []Axis{
	{
		ID:   "L1",
		Name: "Miedo",
		Description: "L1 (Miedo): Ontología de la amenaza. Explora cómo el miedo estructura la experiencia, " +
			"genera narrativas de supervivencia y establece límites entre lo seguro y lo peligroso.",
	},
	{
		ID:   "L2",
		Name: "Control",
		Description: "L2 (Control): Poder y gestión. Examina las dinámicas de control, dominación, resistencia " +
			"y los mecanismos que naturalizan relaciones de poder asimétricas.",
	},
	{
		ID:   "L3",
		Name: "Legitimidad",
		Description: "L3 (Legitimidad): Narrativas y verdad. Analiza cómo se construyen las narrativas " +
			"legitimadoras, qué cuenta como verdad, y quién tiene autoridad epistémica.",
	},
	{
		ID:   "L4",
		Name: "Salud Mental",
		Description: "L4 (Salud Mental): Normalización y desviación. Investiga los límites entre normalidad y " +
			"patología, y cómo se construyen socialmente los estados mentales \"aceptables\".",
	},
	{
		ID:   "L5",
		Name: "Responsabilidad",
		Description: "L5 (Responsabilidad): Agencia y determinación. Explora la tensión entre libre albedrío y " +
			"determinismo, y cómo se asigna responsabilidad moral y política.",
	},
}

// Axes returns the fixed Lagrange axis set in presentation order.
func Axes() []Axis {
	out := make([]Axis, len(axes))
	copy(out, axes)
	return out
}

// AxisByID looks up an axis by id, case-insensitively.
func AxisByID(id string) (Axis, bool) {
	for _, a := range axes {
		if strings.EqualFold(a.ID, id) {
			return a, true
		}
	}
	return Axis{}, false
}

// Snapshot is an immutable view of the concept graph taken at the start of
// an analysis. All lookups are case-insensitive. A Snapshot is safe to share
// across goroutines; it is never mutated after construction.
type Snapshot struct {
	nodes     []ConceptNode
	questions []SocraticQuestion
	edges     []Edge
	byID      map[string]int
	byLabel   map[string]int
}

func newSnapshot(nodes []ConceptNode, questions []SocraticQuestion, edges []Edge) Snapshot {
	snap := Snapshot{
		nodes:     nodes,
		questions: questions,
		edges:     edges,
		byID:      make(map[string]int, len(nodes)),
		byLabel:   make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		snap.byID[strings.ToLower(n.ID)] = i
		snap.byLabel[strings.ToLower(n.Label)] = i
	}
	return snap
}

// Nodes returns all concept nodes in storage order.
func (s Snapshot) Nodes() []ConceptNode { return s.nodes }

// Questions returns all socratic questions in storage order.
func (s Snapshot) Questions() []SocraticQuestion { return s.questions }

// Edges returns all map edges in storage order.
func (s Snapshot) Edges() []Edge { return s.edges }

// NodeByID resolves a node by id, case-insensitively.
func (s Snapshot) NodeByID(id string) (ConceptNode, bool) {
	i, ok := s.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return ConceptNode{}, false
	}
	return s.nodes[i], true
}

// NodeByLabel resolves a node by display label, case-insensitively.
func (s Snapshot) NodeByLabel(label string) (ConceptNode, bool) {
	i, ok := s.byLabel[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return ConceptNode{}, false
	}
	return s.nodes[i], true
}

// NodesByAxis returns the nodes tagged with the given axis, in storage order.
func (s Snapshot) NodesByAxis(axis string) []ConceptNode {
	var out []ConceptNode
	for _, n := range s.nodes {
		if strings.EqualFold(n.Axis, axis) {
			out = append(out, n)
		}
	}
	return out
}

// QuestionsByNode returns every question whose related set references the
// given node id, preserving storage order.
func (s Snapshot) QuestionsByNode(nodeID string) []SocraticQuestion {
	var out []SocraticQuestion
	for _, q := range s.questions {
		if q.RelatesTo(nodeID) {
			out = append(out, q)
		}
	}
	return out
}
