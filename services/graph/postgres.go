// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// MapNodeRow is the relational shape of a concept node (table map_nodes).
type MapNodeRow struct {
	ID          string  `gorm:"primaryKey"`
	Label       string  `gorm:"not null"`
	Axis        string  `gorm:"not null;index"`
	Description string
	PositionX   float64
	PositionY   float64
}

// TableName implements the gorm naming override.
func (MapNodeRow) TableName() string { return "map_nodes" }

// QuestionRow is the relational shape of a socratic question
// (table socratic_questions). RelatedNodes is stored as a JSON column.
type QuestionRow struct {
	ID           string   `gorm:"primaryKey"`
	Text         string   `gorm:"not null"`
	Axis         string   `gorm:"index"`
	RelatedNodes []string `gorm:"serializer:json"`
}

// TableName implements the gorm naming override.
func (QuestionRow) TableName() string { return "socratic_questions" }

// LoadFromDatabase replaces the store contents with the map_nodes and
// socratic_questions tables.
//
// When the node table is empty the store is left untouched and an error is
// returned, so callers can fall back to the embedded dataset. No transaction
// is required: the graph only needs read-mostly eventual consistency.
func (s *Store) LoadFromDatabase(ctx context.Context, db *gorm.DB) error {
	var nodeRows []MapNodeRow
	if err := db.WithContext(ctx).Order("id").Find(&nodeRows).Error; err != nil {
		return fmt.Errorf("failed to load map_nodes: %w", err)
	}
	if len(nodeRows) == 0 {
		return fmt.Errorf("map_nodes table is empty")
	}

	var questionRows []QuestionRow
	if err := db.WithContext(ctx).Order("id").Find(&questionRows).Error; err != nil {
		return fmt.Errorf("failed to load socratic_questions: %w", err)
	}

	nodes := make([]ConceptNode, 0, len(nodeRows))
	for _, r := range nodeRows {
		nodes = append(nodes, ConceptNode{
			ID:          r.ID,
			Label:       r.Label,
			Axis:        r.Axis,
			Description: r.Description,
			X:           r.PositionX,
			Y:           r.PositionY,
		})
	}

	questions := make([]SocraticQuestion, 0, len(questionRows))
	for _, r := range questionRows {
		questions = append(questions, SocraticQuestion{
			ID:             r.ID,
			Text:           r.Text,
			Axis:           r.Axis,
			RelatedNodeIDs: r.RelatedNodes,
		})
	}

	s.Replace(nodes, questions, s.Snapshot().Edges())
	slog.Info("Concept graph loaded from database",
		"nodes", len(nodes), "questions", len(questions))
	return nil
}
