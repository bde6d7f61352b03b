// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analysis implements the socratic analysis pipeline.
//
// # Description
//
// One invocation takes free user text, matches it against the concept graph,
// asks the configured language model for a dialectical analysis, extracts
// and merges questions, scores tension, and returns a single immutable
// AnalysisResult. Every invocation is independent; the service holds no
// cross-call state beyond read-only collaborators.
//
// Failure policy: an empty input or an unexpected panic yields ok false. A
// model failure never does; it yields a canned degraded result with ok true
// so the caller always has something to display.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
	"github.com/sistemaproyectomunidal/platonia-lab/services/lab/observability"
	"github.com/sistemaproyectomunidal/platonia-lab/services/llm"
	"github.com/sistemaproyectomunidal/platonia-lab/services/tension"
)

var tracer = otel.Tracer("lagrange.analysis")

const (
	// maxQuestions caps the merged question list. Model-authored questions
	// take priority; catalog questions fill the remaining slots.
	maxQuestions = 3

	defaultModelDeadline   = 60 * time.Second
	defaultPersistDeadline = 10 * time.Second
)

// Record is what the persistence collaborator receives after an analysis.
type Record struct {
	Prompt         string
	Summary        string
	Axes           []string
	MatchedNodeIDs []string
	Questions      []GeneratedQuestion
	AIResponse     string
	Degraded       bool
}

// Recorder durably stores analysis outcomes. Saves are fire-and-forget from
// the pipeline's perspective: errors are logged, never retried, and never
// surfaced to the analysis caller.
type Recorder interface {
	Save(ctx context.Context, rec Record) (id string, err error)
}

// Service runs the analysis pipeline.
type Service interface {
	RunAnalysis(ctx context.Context, req AnalysisRequest) AnalysisResult
}

// Config carries the collaborators and tunables for NewService.
type Config struct {
	Graph   *graph.Store
	LLM     llm.Client
	Tension *tension.Engine

	// Recorder is optional. When nil, results are simply not persisted.
	Recorder Recorder

	// MatchStrategy selects the fallback matching policy. Empty means
	// substring containment.
	MatchStrategy MatchStrategy

	// ModelDeadline bounds the outbound model call so a hung provider
	// degrades instead of blocking. Zero means 60 seconds.
	ModelDeadline time.Duration

	// Now is injectable for tests; zero value means time.Now.
	Now func() time.Time
}

type service struct {
	graph         *graph.Store
	llm           llm.Client
	tension       *tension.Engine
	recorder      Recorder
	matcher       *Matcher
	modelDeadline time.Duration
	now           func() time.Time
}

var _ Service = (*service)(nil)

func applyConfigDefaults(cfg *Config) {
	if cfg.ModelDeadline <= 0 {
		cfg.ModelDeadline = defaultModelDeadline
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
}

// NewService validates the config and builds the pipeline service.
func NewService(cfg Config) (Service, error) {
	if cfg.Graph == nil {
		return nil, fmt.Errorf("analysis service requires a concept graph store")
	}
	if cfg.LLM == nil {
		return nil, fmt.Errorf("analysis service requires an LLM client")
	}
	if cfg.Tension == nil {
		return nil, fmt.Errorf("analysis service requires a tension engine")
	}
	applyConfigDefaults(&cfg)

	return &service{
		graph:         cfg.Graph,
		llm:           cfg.LLM,
		tension:       cfg.Tension,
		recorder:      cfg.Recorder,
		matcher:       NewMatcher(cfg.MatchStrategy),
		modelDeadline: cfg.ModelDeadline,
		now:           cfg.Now,
	}, nil
}

// RunAnalysis executes the pipeline for one request. It never panics and
// never returns a malformed result; see the package comment for the failure
// policy.
func (s *service) RunAnalysis(ctx context.Context, req AnalysisRequest) (result AnalysisResult) {
	ctx, span := tracer.Start(ctx, "analysis.RunAnalysis")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Analysis pipeline panicked", "panic", r)
			result = failedResult("Error interno durante el análisis. Intenta de nuevo.")
		}
	}()

	userInput := strings.TrimSpace(req.UserInput)
	if userInput == "" {
		return failedResult("El texto de entrada está vacío.")
	}
	span.SetAttributes(attribute.Int("analysis.input_len", len(userInput)))

	snap := s.graph.Snapshot()

	// First pass over the raw input only. These ids drive the prompt
	// preview and the local question lookup.
	matchedIDs, matchedAxes := s.matcher.MatchNodes(userInput, snap)
	slog.Debug("Matched concept nodes", "count", len(matchedIDs), "axes", matchedAxes)

	prompt := buildPrompt(userInput, s.now())
	fullContext := buildContext(snap, matchedIDs, req.TargetAxis, req.Context)
	systemPrompt := buildSystemPrompt(req.TargetAxis)

	modelCtx, cancel := context.WithTimeout(ctx, s.modelDeadline)
	modelText, err := s.llm.Generate(modelCtx, llm.GenerationRequest{
		Prompt:       prompt,
		Context:      fullContext,
		SystemPrompt: systemPrompt,
		History:      req.ConversationHistory,
	})
	cancel()
	if err != nil {
		slog.Warn("Model call failed, serving a degraded analysis", "error", err)
		span.SetAttributes(attribute.Bool("analysis.degraded", true))
		result = degradedResult(userInput, snap)
		s.persist(req, result)
		return result
	}

	aiQuestions := make([]GeneratedQuestion, 0, maxQuestions)
	for i, text := range extractQuestions(modelText) {
		aiQuestions = append(aiQuestions, GeneratedQuestion{
			ID:   fmt.Sprintf("ai-%d", i+1),
			Text: text,
			Axis: questionAxis(req.TargetAxis),
		})
	}

	// Second pass over input plus model output. The model-informed set
	// wins when it found anything at all.
	relatedIDs, _ := s.matcher.MatchNodes(userInput+" "+modelText, snap)
	if len(relatedIDs) == 0 {
		relatedIDs = matchedIDs
	}

	localQuestions := aggregateQuestions(matchedIDs, snap.Questions())
	questions := mergeQuestions(aiQuestions, localQuestions)

	axes := unionAxes(matchedAxes, relatedIDs, snap)
	sortedIDs := append([]string(nil), relatedIDs...)
	sort.Strings(sortedIDs)

	level := s.tension.Score(userInput, modelText)
	warnings := s.tension.Validate(modelText, level)
	if warnings == nil {
		warnings = []string{}
	}

	result = AnalysisResult{
		AnalysisText:       modelText,
		GeneratedQuestions: questions,
		RelatedNodeIDs:     sortedIDs,
		MatchedAxes:        axes,
		TensionLevel:       level,
		Warnings:           warnings,
		Summary:            buildSummary(len(questions), axes),
		OK:                 true,
	}
	s.persist(req, result)
	return result
}

// persist hands the result to the recorder without awaiting it. The analysis
// succeeded independent of whether it could be saved.
func (s *service) persist(req AnalysisRequest, result AnalysisResult) {
	if s.recorder == nil {
		return
	}
	rec := Record{
		Prompt:         req.UserInput,
		Summary:        result.Summary,
		Axes:           result.MatchedAxes,
		MatchedNodeIDs: result.RelatedNodeIDs,
		Questions:      result.GeneratedQuestions,
		AIResponse:     result.AnalysisText,
		Degraded:       result.Degraded,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultPersistDeadline)
		defer cancel()
		if id, err := s.recorder.Save(ctx, rec); err != nil {
			slog.Warn("Failed to persist the analysis result", "error", err)
			if m := observability.DefaultMetrics; m != nil {
				m.PersistenceErrorsTotal.Inc()
			}
		} else {
			slog.Debug("Persisted the analysis result", "id", id)
		}
	}()
}

func mergeQuestions(aiQuestions []GeneratedQuestion, local []graph.SocraticQuestion) []GeneratedQuestion {
	merged := make([]GeneratedQuestion, 0, maxQuestions)
	seen := make(map[string]bool)

	for _, q := range aiQuestions {
		key := strings.ToLower(q.Text)
		if len(merged) == maxQuestions || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, q)
	}
	for _, q := range local {
		key := strings.ToLower(q.Text)
		if len(merged) == maxQuestions {
			break
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, GeneratedQuestion{ID: q.ID, Text: q.Text, Axis: q.Axis})
	}
	return merged
}

func unionAxes(matchedAxes, relatedIDs []string, snap graph.Snapshot) []string {
	seen := make(map[string]bool)
	var axes []string
	add := func(axis string) {
		key := strings.ToLower(axis)
		if axis == "" || seen[key] {
			return
		}
		seen[key] = true
		axes = append(axes, axis)
	}
	for _, a := range matchedAxes {
		add(a)
	}
	for _, id := range relatedIDs {
		if node, ok := snap.NodeByID(id); ok {
			add(node.Axis)
		}
	}
	sort.Strings(axes)
	return axes
}

func questionAxis(targetAxis string) string {
	if targetAxis == "" {
		return "general"
	}
	return targetAxis
}

func buildSummary(questionCount int, axes []string) string {
	if questionCount == 0 {
		return "No se encontraron correspondencias claras."
	}
	axisList := strings.Join(axes, ", ")
	if axisList == "" {
		axisList = "general"
	}
	return fmt.Sprintf("Propuesta: %d preguntas relevantes sobre los ejes %s", questionCount, axisList)
}

func failedResult(message string) AnalysisResult {
	return AnalysisResult{
		GeneratedQuestions: []GeneratedQuestion{},
		RelatedNodeIDs:     []string{},
		MatchedAxes:        []string{},
		Warnings:           []string{},
		Summary:            "No se pudo completar el análisis.",
		OK:                 false,
		ErrorMessage:       message,
	}
}
