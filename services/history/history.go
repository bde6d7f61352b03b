// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package history keeps a local rolling log of past analyses.
//
// Backed by an embedded BadgerDB so the log survives restarts without any
// external database. The store keeps at most MaxEntries entries; appending
// beyond the cap evicts the oldest. It is a collaborator injected into the
// pipeline's caller, never ambient state reached from inside the pipeline.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	// DefaultMaxEntries matches the rolling window the lab UI shows.
	DefaultMaxEntries = 50

	keyPrefix = "history:"
)

// Question is one question recorded with an entry.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Axis string `json:"axis"`
}

// Entry is one recorded analysis run.
type Entry struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"createdAt"`
	Prompt       string     `json:"prompt"`
	Summary      string     `json:"summary"`
	Axes         []string   `json:"axes"`
	MatchedNodes []string   `json:"matchedNodes"`
	Questions    []Question `json:"questions"`
	AIResponse   string     `json:"aiResponse,omitempty"`
	TensionLevel int        `json:"tensionLevel"`
	Degraded     bool       `json:"degraded,omitempty"`
}

// Config holds store configuration.
type Config struct {
	// Path is the directory for the database files. Required unless
	// InMemory is true; created if absent.
	Path string

	// InMemory disables disk persistence. Useful for testing.
	InMemory bool

	// MaxEntries caps the rolling window. Zero means DefaultMaxEntries.
	MaxEntries int

	// Logger receives BadgerDB's internal messages. Nil disables them.
	Logger *slog.Logger
}

// Store is a badger-backed history log. Safe for concurrent use.
type Store struct {
	db         *badger.DB
	maxEntries int
}

// Open opens the history store with the given configuration.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for a persistent history store")
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create history directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return &Store{db: db, maxEntries: cfg.MaxEntries}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// entryKey orders entries chronologically so a reverse scan yields newest
// first. The uuid suffix disambiguates equal timestamps.
func entryKey(at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", keyPrefix, at.UnixNano(), id))
}

// Append records one entry, assigning an id and timestamp when missing, and
// evicts the oldest entries beyond the cap.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal history entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(entryKey(e.CreatedAt, e.ID), data); err != nil {
			return err
		}
		return s.evictOldest(txn)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("append history entry: %w", err)
	}
	return e, nil
}

// evictOldest deletes the oldest entries until at most maxEntries remain.
// Runs inside the append transaction so the cap holds atomically.
func (s *Store) evictOldest(txn *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(keyPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for i := 0; i < len(keys)-s.maxEntries; i++ {
		if err := txn.Delete(keys[i]); err != nil {
			return err
		}
	}
	return nil
}

// List returns all entries, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key past the whole prefix range.
		seek := append([]byte(keyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix([]byte(keyPrefix)); it.Next() {
			var e Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Export writes the full history as a JSON array, newest first.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

// badgerLogger adapts slog to BadgerDB's logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
