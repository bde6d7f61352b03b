// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tension scores dialectical tension and validates the Regla de Oro.
//
// The Regla de Oro is the system's guiding policy: analysis must preserve
// dialectical tension, never resolve it with definitive answers, never
// over-affirm. The engine has two independent operations:
//
//   - Score: a pure keyword heuristic mapping text to an integer in [0,10]
//   - Validate: advisory warnings for rule violations in model output
//
// Both operate on configuration loaded from an embedded YAML file (see the
// rules package); the vocabulary and the violation patterns are data, not
// branches, so they can be tuned and tested independently of the algorithm.
package tension

import (
	"fmt"
	"math"
	"strings"

	"github.com/sistemaproyectomunidal/platonia-lab/services/tension/rules"
	"gopkg.in/yaml.v3"
)

// Engine holds the compiled Regla de Oro configuration. It is immutable
// after construction and safe for concurrent use.
type Engine struct {
	vocabulary []string // lowercased terms
	file       RuleFile
}

// NewEngine initializes an engine from the rule file embedded in the binary.
func NewEngine() (*Engine, error) {
	return NewEngineFromBytes(rules.TensionRules)
}

// NewEngineFromBytes initializes an engine from raw YAML. It unmarshals the
// rule file, compiles every regex, and lowercases the vocabulary once.
func NewEngineFromBytes(data []byte) (*Engine, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the tension rule file: %w", err)
	}
	if len(file.Vocabulary) == 0 {
		return nil, fmt.Errorf("tension rule file has an empty vocabulary")
	}
	if err := file.CompileRegexes(); err != nil {
		return nil, err
	}
	if file.Agreement.MinMatches == 0 {
		file.Agreement.MinMatches = 1
	}

	vocab := make([]string, len(file.Vocabulary))
	for i, term := range file.Vocabulary {
		vocab[i] = strings.ToLower(term)
	}

	return &Engine{vocabulary: vocab, file: file}, nil
}

// VocabularySize returns the number of terms in the tension vocabulary.
func (e *Engine) VocabularySize() int { return len(e.vocabulary) }

// Score computes the productive tension level of an exchange.
//
// It counts how many distinct vocabulary terms appear (case-insensitive
// substring) anywhere in userInput+modelText and normalizes the count to
// [0,10]. Pure function: identical inputs always yield identical levels.
func (e *Engine) Score(userInput, modelText string) int {
	combined := strings.ToLower(userInput + " " + modelText)

	matches := 0
	for _, term := range e.vocabulary {
		if strings.Contains(combined, term) {
			matches++
		}
	}

	level := int(math.Round(float64(matches) / float64(len(e.vocabulary)) * 10))
	if level > 10 {
		level = 10
	}
	if level < 0 {
		level = 0
	}
	return level
}

// Validate checks model output against the Regla de Oro and returns advisory
// warnings, in rule order.
//
// Checks, independently:
//  1. level below the configured threshold → low-tension warning
//  2. any definitive-statement pattern → definitive warning, at most once
//     per call no matter how many patterns hit
//  3. at least MinMatches distinct agreement patterns → agreement warning
//
// Warnings never block anything; callers attach them to the result as-is.
func (e *Engine) Validate(modelText string, level int) []string {
	var warnings []string

	if level < e.file.LowTension.Threshold {
		warnings = append(warnings, e.file.LowTension.Warning)
	}

	for _, p := range e.file.Definitive.Patterns {
		if p.compiled.MatchString(modelText) {
			warnings = append(warnings, e.file.Definitive.Warning)
			break
		}
	}

	agreementCount := 0
	for _, p := range e.file.Agreement.Patterns {
		if p.compiled.MatchString(modelText) {
			agreementCount++
		}
	}
	if agreementCount >= e.file.Agreement.MinMatches {
		warnings = append(warnings, e.file.Agreement.Warning)
	}

	return warnings
}
