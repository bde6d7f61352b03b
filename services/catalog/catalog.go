// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package catalog serves the site's editorial content: the corpus of essays
// and the podcast episode list. Plain relational CRUD; only published rows
// ever leave this package.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a slug or episode does not exist or is not
// published.
var ErrNotFound = errors.New("catalog entry not found")

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// CorpusEntry is one essay in the corpus.
type CorpusEntry struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `json:"content,omitempty"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Axes         []string  `gorm:"serializer:json" json:"axes,omitempty"`
	RelatedNodes []string  `gorm:"serializer:json" json:"relatedNodes,omitempty"`
	Status       string    `gorm:"default:draft" json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (CorpusEntry) TableName() string { return "corpus_entries" }

// Episode is one podcast episode with its transcript.
type Episode struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	EpisodeNumber int       `gorm:"uniqueIndex" json:"episodeNumber"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description,omitempty"`
	AudioURL      string    `gorm:"column:audio_url" json:"audioUrl,omitempty"`
	DurationSec   int       `json:"durationSec,omitempty"`
	Transcript    string    `json:"transcript,omitempty"`
	RelatedNodes  []string  `gorm:"serializer:json" json:"relatedNodes,omitempty"`
	PublishedAt   time.Time `json:"publishedAt"`
	Published     bool      `gorm:"default:false" json:"published"`
}

func (Episode) TableName() string { return "podcast_episodes" }

// Store wraps the gorm handle. Safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// New wraps an existing gorm handle and migrates both tables.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&CorpusEntry{}, &Episode{}); err != nil {
		return nil, fmt.Errorf("migrate catalog tables: %w", err)
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

// ListCorpus returns published corpus entries, newest first, without the
// full content body.
func (s *Store) ListCorpus(ctx context.Context) ([]CorpusEntry, error) {
	var entries []CorpusEntry
	err := s.db.WithContext(ctx).
		Omit("content").
		Where("status = ?", StatusPublished).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list corpus entries: %w", err)
	}
	return entries, nil
}

// GetCorpusBySlug fetches one published entry with its full content.
func (s *Store) GetCorpusBySlug(ctx context.Context, slug string) (CorpusEntry, error) {
	var entry CorpusEntry
	err := s.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, StatusPublished).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CorpusEntry{}, ErrNotFound
	}
	if err != nil {
		return CorpusEntry{}, fmt.Errorf("get corpus entry %q: %w", slug, err)
	}
	return entry, nil
}

// UpsertCorpus inserts or updates an entry keyed by slug.
func (s *Store) UpsertCorpus(ctx context.Context, entry CorpusEntry) error {
	if entry.Slug == "" {
		return errors.New("corpus entry requires a slug")
	}
	var existing CorpusEntry
	err := s.db.WithContext(ctx).Where("slug = ?", entry.Slug).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return fmt.Errorf("create corpus entry %q: %w", entry.Slug, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("lookup corpus entry %q: %w", entry.Slug, err)
	default:
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
			return fmt.Errorf("update corpus entry %q: %w", entry.Slug, err)
		}
		return nil
	}
}

// ListEpisodes returns published episodes ordered by episode number,
// transcripts omitted.
func (s *Store) ListEpisodes(ctx context.Context) ([]Episode, error) {
	var episodes []Episode
	err := s.db.WithContext(ctx).
		Omit("transcript").
		Where("published = ?", true).
		Order("episode_number ASC").
		Find(&episodes).Error
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	return episodes, nil
}

// GetEpisode fetches one published episode with its transcript.
func (s *Store) GetEpisode(ctx context.Context, number int) (Episode, error) {
	var episode Episode
	err := s.db.WithContext(ctx).
		Where("episode_number = ? AND published = ?", number, true).
		First(&episode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Episode{}, ErrNotFound
	}
	if err != nil {
		return Episode{}, fmt.Errorf("get episode %d: %w", number, err)
	}
	return episode, nil
}
