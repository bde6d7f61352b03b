// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"strings"

	"github.com/sistemaproyectomunidal/platonia-lab/services/llm"
)

// AnalysisRequest is one user-submitted unit of work. It is constructed per
// call and never retained by the pipeline.
type AnalysisRequest struct {
	// UserInput is the raw text to analyze. Required; it must be non-empty
	// after trimming.
	UserInput string `json:"userInput" binding:"required"`

	// Context is optional caller-supplied free text appended to the concept
	// map context sent to the model.
	Context string `json:"context,omitempty"`

	// TargetAxis optionally focuses the analysis on one Lagrange axis
	// (L1..L5). Unknown values are passed through, not rejected.
	TargetAxis string `json:"targetAxis,omitempty"`

	// ConversationHistory holds prior turns, oldest first.
	ConversationHistory []llm.Message `json:"conversationHistory,omitempty"`
}

// GeneratedQuestion is one question in an AnalysisResult. Questions extracted
// from model output carry a synthetic "ai-" id prefix; questions drawn from
// the stored catalog keep their stored id, so provenance is always visible.
type GeneratedQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Axis string `json:"axis"`
}

// AIGenerated reports whether the question was authored by the model rather
// than drawn from the stored catalog.
func (q GeneratedQuestion) AIGenerated() bool {
	return strings.HasPrefix(q.ID, "ai-")
}

// AnalysisResult is the output contract of the pipeline.
//
// Invariants: TensionLevel is always in [0,10] and GeneratedQuestions holds
// at most 3 entries after merging. A result is produced once per invocation
// and never mutated afterwards.
type AnalysisResult struct {
	// AnalysisText may be empty: the absence of a usable model response is
	// representable and is not an error.
	AnalysisText string `json:"analysis"`

	GeneratedQuestions []GeneratedQuestion `json:"generatedQuestions"`

	// RelatedNodeIDs and MatchedAxes are sets; they are sorted before the
	// result is composed so identical inputs produce identical output.
	RelatedNodeIDs []string `json:"relatedNodes"`
	MatchedAxes    []string `json:"axes"`

	TensionLevel int      `json:"tensionLevel"`
	Warnings     []string `json:"warnings"`
	Summary      string   `json:"summary"`

	OK bool `json:"ok"`

	// Degraded marks a result built from canned fallback content because
	// the model call failed. Such results still report OK true so the
	// caller always has something to display; Degraded lets operators and
	// tests tell the two apart.
	Degraded bool `json:"degraded,omitempty"`

	// ErrorMessage is present only when OK is false.
	ErrorMessage string `json:"errorMessage,omitempty"`
}
