// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph provides the concept graph store for the Lagrange system.
//
// The store holds the concept nodes and pre-authored socratic questions the
// analysis pipeline matches against. It can be backed by the embedded
// dataset, a JSON file on disk (with optional fsnotify hot-reload), or a
// relational database. Whatever the source, normalization of the duck-typed
// question shapes happens exactly once, at load time; everything downstream
// sees only the canonical types.
//
// Analysis code never reads the store directly: it takes a Snapshot, which
// is immutable and safe to use while a reload swaps the live data.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store is the mutable holder of the current concept graph. Reads go through
// Snapshot(); Reload and the database loader replace the data atomically
// under the write lock.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	path string // source file, empty when loaded from embedded or database
}

// rawNode is the wire shape of a dataset node entry.
type rawNode struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Axis        string  `json:"axis"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	PositionX   float64 `json:"position_x"`
	PositionY   float64 `json:"position_y"`
}

// rawQuestion tolerates the two question shapes seen in the wild: text/axis
// with relatedNodes, and question/related_axis with related_nodes.
type rawQuestion struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Question     string   `json:"question"`
	Axis         string   `json:"axis"`
	RelatedAxis  string   `json:"related_axis"`
	RelatedNodes []string `json:"relatedNodes"`
	RelatedSnake []string `json:"related_nodes"`
}

type nodesFile struct {
	Nodes []rawNode `json:"nodes"`
	Edges []Edge    `json:"edges"`
}

type questionsFile struct {
	Questions []rawQuestion `json:"questions"`
}

// ParseDataset decodes and normalizes a nodes document and a questions
// document into canonical graph data.
//
// Normalization rules:
//   - a question's text is Text, falling back to Question
//   - a question's axis is Axis, falling back to RelatedAxis
//   - related node ids are the union-free first non-empty of the camelCase
//     and snake_case fields
//   - nodes and questions with an empty id are dropped with a warning
//   - duplicate node ids (case-insensitive) keep the first occurrence
func ParseDataset(nodesJSON, questionsJSON []byte) ([]ConceptNode, []SocraticQuestion, []Edge, error) {
	var nf nodesFile
	if err := json.Unmarshal(nodesJSON, &nf); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse the nodes dataset: %w", err)
	}

	var qf questionsFile
	if len(questionsJSON) > 0 {
		if err := json.Unmarshal(questionsJSON, &qf); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to parse the questions dataset: %w", err)
		}
	}

	seen := make(map[string]bool, len(nf.Nodes))
	nodes := make([]ConceptNode, 0, len(nf.Nodes))
	for _, rn := range nf.Nodes {
		id := strings.TrimSpace(rn.ID)
		if id == "" {
			slog.Warn("Dropping concept node with empty id", "label", rn.Label)
			continue
		}
		key := strings.ToLower(id)
		if seen[key] {
			slog.Warn("Dropping duplicate concept node id", "id", id)
			continue
		}
		seen[key] = true
		x, y := rn.X, rn.Y
		if x == 0 && y == 0 {
			x, y = rn.PositionX, rn.PositionY
		}
		nodes = append(nodes, ConceptNode{
			ID:          id,
			Label:       rn.Label,
			Axis:        rn.Axis,
			Description: rn.Description,
			X:           x,
			Y:           y,
		})
	}

	questions := make([]SocraticQuestion, 0, len(qf.Questions))
	for _, rq := range qf.Questions {
		q := normalizeQuestion(rq)
		if q.ID == "" || q.Text == "" {
			slog.Warn("Dropping malformed socratic question", "id", rq.ID)
			continue
		}
		questions = append(questions, q)
	}

	return nodes, questions, nf.Edges, nil
}

func normalizeQuestion(rq rawQuestion) SocraticQuestion {
	text := rq.Text
	if text == "" {
		text = rq.Question
	}
	axis := rq.Axis
	if axis == "" {
		axis = rq.RelatedAxis
	}
	related := rq.RelatedNodes
	if len(related) == 0 {
		related = rq.RelatedSnake
	}
	return SocraticQuestion{
		ID:             strings.TrimSpace(rq.ID),
		Text:           strings.TrimSpace(text),
		Axis:           axis,
		RelatedNodeIDs: related,
	}
}

// NewStore builds a store from already-normalized data. Primarily useful in
// tests and for the database loader.
func NewStore(nodes []ConceptNode, questions []SocraticQuestion, edges []Edge) *Store {
	return &Store{snap: newSnapshot(nodes, questions, edges)}
}

// NewFromBytes builds a store from raw dataset documents.
func NewFromBytes(nodesJSON, questionsJSON []byte) (*Store, error) {
	nodes, questions, edges, err := ParseDataset(nodesJSON, questionsJSON)
	if err != nil {
		return nil, err
	}
	return NewStore(nodes, questions, edges), nil
}

// NewFromFiles builds a store from dataset files on disk. The questions path
// may be empty, in which case the store has nodes only.
func NewFromFiles(nodesPath, questionsPath string) (*Store, error) {
	nodesJSON, err := os.ReadFile(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the nodes dataset %s: %w", nodesPath, err)
	}
	var questionsJSON []byte
	if questionsPath != "" {
		questionsJSON, err = os.ReadFile(questionsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read the questions dataset %s: %w", questionsPath, err)
		}
	}
	s, err := NewFromBytes(nodesJSON, questionsJSON)
	if err != nil {
		return nil, err
	}
	s.path = nodesPath
	return s, nil
}

// Snapshot returns the current immutable view of the graph.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace swaps the live graph data. Existing snapshots keep the old data.
func (s *Store) Replace(nodes []ConceptNode, questions []SocraticQuestion, edges []Edge) {
	snap := newSnapshot(nodes, questions, edges)
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	slog.Info("Concept graph replaced", "nodes", len(nodes), "questions", len(questions))
}

// Reload re-reads the dataset file the store was created from. A store built
// from embedded or database data has nothing to reload.
func (s *Store) Reload(questionsPath string) error {
	if s.path == "" {
		return fmt.Errorf("store has no backing dataset file")
	}
	fresh, err := NewFromFiles(s.path, questionsPath)
	if err != nil {
		return err
	}
	snap := fresh.Snapshot()
	s.Replace(snap.Nodes(), snap.Questions(), snap.Edges())
	return nil
}

// Watch reloads the store whenever its backing dataset file changes.
//
// Events are debounced so an editor writing the file in several bursts
// triggers a single reload. The watcher runs until ctx is canceled. A reload
// failure keeps the previous graph and logs the error; the watcher keeps
// running.
func (s *Store) Watch(ctx context.Context, questionsPath string, debounce time.Duration) error {
	if s.path == "" {
		return fmt.Errorf("store has no backing dataset file to watch")
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create the dataset watcher: %w", err)
	}
	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.path, err)
	}
	if questionsPath != "" {
		if err := watcher.Add(questionsPath); err != nil {
			slog.Warn("Failed to watch the questions dataset, watching nodes only",
				"path", questionsPath, "error", err)
		}
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		var timerC <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					timerC = timer.C
				} else {
					timer.Reset(debounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Dataset watcher error", "error", err)
			case <-timerC:
				timer = nil
				timerC = nil
				if err := s.Reload(questionsPath); err != nil {
					slog.Error("Concept graph reload failed, keeping previous graph",
						"path", s.path, "error", err)
				}
			}
		}
	}()

	slog.Info("Watching concept graph dataset", "path", s.path, "debounce", debounce.String())
	return nil
}
