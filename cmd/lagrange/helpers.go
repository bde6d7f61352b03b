// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sistemaproyectomunidal/platonia-lab/pkg/logging"
	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
	"github.com/sistemaproyectomunidal/platonia-lab/services/history"
	"github.com/sistemaproyectomunidal/platonia-lab/services/llm"
	"github.com/sistemaproyectomunidal/platonia-lab/services/tension"
)

// setupLogging installs the process-wide slog default.
func setupLogging(service string) *logging.Logger {
	logger := logging.New(logging.Config{
		Level:   logging.LevelInfo,
		LogDir:  os.Getenv("LAGRANGE_LOG_DIR"),
		Service: service,
	})
	slog.SetDefault(logger.Slog())
	return logger
}

// buildGraphStore loads the concept graph from the configured files, or the
// embedded dataset when none are set.
func buildGraphStore() (*graph.Store, string, error) {
	nodesPath := os.Getenv("LAGRANGE_NODES_PATH")
	questionsPath := os.Getenv("LAGRANGE_QUESTIONS_PATH")
	if nodesPath != "" && questionsPath != "" {
		store, err := graph.NewFromFiles(nodesPath, questionsPath)
		if err != nil {
			return nil, "", fmt.Errorf("load concept graph from files: %w", err)
		}
		slog.Info("Loaded the concept graph from files",
			"nodes", nodesPath, "questions", questionsPath)
		return store, questionsPath, nil
	}

	store, err := graph.NewEmbedded()
	if err != nil {
		return nil, "", err
	}
	slog.Info("Loaded the embedded concept graph")
	return store, "", nil
}

// buildAnalysisService assembles the pipeline with the configured backend.
// The recorder is optional.
func buildAnalysisService(store *graph.Store, recorder analysis.Recorder) (analysis.Service, error) {
	engine, err := tension.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("initialize tension engine: %w", err)
	}

	backend := os.Getenv("LLM_BACKEND_TYPE")
	client, err := llm.NewClient(backend)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM backend: %w", err)
	}

	return analysis.NewService(analysis.Config{
		Graph:         store,
		LLM:           client,
		Tension:       engine,
		Recorder:      recorder,
		MatchStrategy: analysis.MatchStrategy(getEnvString("LAGRANGE_MATCH_STRATEGY", "")),
	})
}

// openHistoryStore opens the local rolling history.
func openHistoryStore() (*history.Store, error) {
	dir := os.Getenv("LAGRANGE_HISTORY_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".platonia", "history")
	}
	return history.Open(history.Config{Path: dir})
}

// historyEntryFromResult converts an analysis outcome into a history entry.
func historyEntryFromResult(prompt string, result analysis.AnalysisResult) history.Entry {
	questions := make([]history.Question, 0, len(result.GeneratedQuestions))
	for _, q := range result.GeneratedQuestions {
		questions = append(questions, history.Question{ID: q.ID, Text: q.Text, Axis: q.Axis})
	}
	return history.Entry{
		Prompt:       prompt,
		Summary:      result.Summary,
		Axes:         result.MatchedAxes,
		MatchedNodes: result.RelatedNodeIDs,
		Questions:    questions,
		AIResponse:   result.AnalysisText,
		TensionLevel: result.TensionLevel,
		Degraded:     result.Degraded,
	}
}
