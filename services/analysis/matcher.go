// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
)

// MatchStrategy selects how the whole-text fallback scan compares node
// keywords against the input.
type MatchStrategy string

const (
	// MatchSubstring matches node labels and ids as plain substrings of the
	// folded input. Deliberately loose: "intermiedoso" matches the node
	// "miedo". This is the historical behavior and the default.
	MatchSubstring MatchStrategy = "substring"

	// MatchWordBoundary only matches single-word keywords against whole
	// words of the input. Multi-word labels still use substring containment.
	MatchWordBoundary MatchStrategy = "word-boundary"
)

var bracketTokenRE = regexp.MustCompile(`\[([^\]]+)\]`)

// Matcher maps free text to concept node ids and their axes.
type Matcher struct {
	strategy MatchStrategy
}

// NewMatcher builds a matcher with the given fallback strategy. An empty
// strategy means MatchSubstring.
func NewMatcher(strategy MatchStrategy) *Matcher {
	if strategy == "" {
		strategy = MatchSubstring
	}
	return &Matcher{strategy: strategy}
}

// MatchNodes resolves free text against the graph snapshot.
//
// Bracketed tokens are resolved first, each by exact case-insensitive node
// id, then by exact case-insensitive label; unresolvable tokens are silently
// dropped. Only when bracket resolution yields nothing does the whole-text
// fallback scan run, per the configured strategy.
//
// Returns the matched node ids and their distinct axes, both deduplicated in
// first-match order. There are no error conditions; empty results are valid.
func (m *Matcher) MatchNodes(text string, snap graph.Snapshot) (nodeIDs, matchedAxes []string) {
	var matched []graph.ConceptNode
	seen := make(map[string]bool)

	for _, token := range bracketTokenRE.FindAllStringSubmatch(text, -1) {
		raw := strings.ToLower(strings.TrimSpace(token[1]))
		if raw == "" {
			continue
		}
		node, ok := snap.NodeByID(raw)
		if !ok {
			node, ok = snap.NodeByLabel(raw)
		}
		if !ok {
			continue
		}
		key := strings.ToLower(node.ID)
		if !seen[key] {
			seen[key] = true
			matched = append(matched, node)
		}
	}

	if len(matched) == 0 && strings.TrimSpace(text) != "" {
		folded := strings.ToLower(text)
		for _, node := range snap.Nodes() {
			key := strings.ToLower(node.ID)
			if seen[key] {
				continue
			}
			if m.contains(folded, strings.ToLower(node.Label)) ||
				m.contains(folded, key) {
				seen[key] = true
				matched = append(matched, node)
			}
		}
	}

	axisSeen := make(map[string]bool)
	for _, node := range matched {
		nodeIDs = append(nodeIDs, node.ID)
		axisKey := strings.ToLower(node.Axis)
		if node.Axis != "" && !axisSeen[axisKey] {
			axisSeen[axisKey] = true
			matchedAxes = append(matchedAxes, node.Axis)
		}
	}
	return nodeIDs, matchedAxes
}

func (m *Matcher) contains(folded, keyword string) bool {
	if keyword == "" {
		return false
	}
	if m.strategy == MatchWordBoundary && !strings.ContainsRune(keyword, ' ') {
		return containsWord(folded, keyword)
	}
	return strings.Contains(folded, keyword)
}

func containsWord(folded, keyword string) bool {
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, f := range fields {
		if f == keyword {
			return true
		}
	}
	return false
}
