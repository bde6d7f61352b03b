// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package labstore persists lab analysis runs to a relational database.
//
// It is the durable, queryable record of what the lab produced, and it
// doubles as the pipeline's persistence collaborator: Save satisfies
// analysis.Recorder, so a Store can be injected directly into the analysis
// service. Postgres is the production backend; SQLite serves local runs and
// tests.
package labstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
)

// ErrNotFound is returned when a demo id does not exist.
var ErrNotFound = errors.New("lab demo not found")

// LabDemo is one stored analysis run.
type LabDemo struct {
	ID           string                       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time                    `json:"createdAt"`
	Prompt       string                       `gorm:"not null" json:"prompt"`
	Summary      string                       `json:"summary"`
	Axes         []string                     `gorm:"serializer:json" json:"axes"`
	MatchedNodes []string                     `gorm:"serializer:json" json:"matchedNodes"`
	Questions    []analysis.GeneratedQuestion `gorm:"serializer:json" json:"questions"`
	AIResponse   string                       `gorm:"column:ai_response" json:"aiResponse,omitempty"`
	Degraded     bool                         `json:"degraded,omitempty"`
}

// TableName keeps the historical table name.
func (LabDemo) TableName() string { return "lab_demos" }

// Store wraps the gorm handle. Safe for concurrent use.
type Store struct {
	db *gorm.DB
}

var _ analysis.Recorder = (*Store)(nil)

// New wraps an existing gorm handle and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&LabDemo{}); err != nil {
		return nil, fmt.Errorf("migrate lab_demos: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenPostgres connects to Postgres with the given DSN.
func OpenPostgres(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return New(db)
}

// OpenSQLite opens a file-backed SQLite database at the given path.
func OpenSQLite(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return New(db)
}

// Save implements analysis.Recorder. It assigns the row id and returns it.
func (s *Store) Save(ctx context.Context, rec analysis.Record) (string, error) {
	demo := LabDemo{
		ID:           uuid.NewString(),
		Prompt:       rec.Prompt,
		Summary:      rec.Summary,
		Axes:         rec.Axes,
		MatchedNodes: rec.MatchedNodeIDs,
		Questions:    rec.Questions,
		AIResponse:   rec.AIResponse,
		Degraded:     rec.Degraded,
	}
	if err := s.db.WithContext(ctx).Create(&demo).Error; err != nil {
		return "", fmt.Errorf("save lab demo: %w", err)
	}
	return demo.ID, nil
}

// List returns demos newest first, paginated, along with the total count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]LabDemo, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&LabDemo{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count lab demos: %w", err)
	}

	var demos []LabDemo
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&demos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list lab demos: %w", err)
	}
	return demos, total, nil
}

// Get fetches one demo by id.
func (s *Store) Get(ctx context.Context, id string) (LabDemo, error) {
	var demo LabDemo
	err := s.db.WithContext(ctx).First(&demo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LabDemo{}, ErrNotFound
	}
	if err != nil {
		return LabDemo{}, fmt.Errorf("get lab demo: %w", err)
	}
	return demo, nil
}

// Delete removes one demo by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&LabDemo{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete lab demo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
