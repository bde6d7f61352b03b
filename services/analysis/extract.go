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
	"unicode/utf8"
)

const maxExtractedQuestions = 3

// minQuestionLen excludes noise like a lone "¿Y?".
const minQuestionLen = 10

var (
	numberedQuestionRE = regexp.MustCompile(`^\d+\.\s*¿`)
	dashedQuestionRE   = regexp.MustCompile(`-\s*¿`)
	numberPrefixRE     = regexp.MustCompile(`^\d+\.\s*`)
	dashPrefixRE       = regexp.MustCompile(`^-\s*`)

	// A labeled questions section runs until the first blank line or the
	// end of the text.
	questionSectionRE = regexp.MustCompile(`(?is)PREGUNTAS SOCRÁTICAS:?\s*(.*?)(?:\n\n|$)`)
	plainSectionRE    = regexp.MustCompile(`(?is)PREGUNTAS:?\s*(.*?)(?:\n\n|$)`)
)

// extractQuestions pulls well-formed interrogative lines out of model output.
//
// A line qualifies if it starts with an inverted question mark, optionally
// behind numbering or a dash, is long enough to carry content, and contains
// a closing question mark. Lines under an explicit "PREGUNTAS SOCRÁTICAS"
// (or plain "PREGUNTAS") heading are collected too. The result is
// deduplicated in first-seen order and capped at 3.
func extractQuestions(modelText string) []string {
	var questions []string

	for _, line := range strings.Split(modelText, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "¿") &&
			!numberedQuestionRE.MatchString(line) &&
			!dashedQuestionRE.MatchString(line) {
			continue
		}
		q := stripQuestionPrefix(line)
		if utf8.RuneCountInString(q) > minQuestionLen && strings.Contains(q, "?") {
			questions = append(questions, q)
		}
	}

	section := questionSectionRE.FindStringSubmatch(modelText)
	if section == nil {
		section = plainSectionRE.FindStringSubmatch(modelText)
	}
	if section != nil {
		for _, line := range strings.Split(section[1], "\n") {
			line = strings.TrimSpace(line)
			if (strings.HasPrefix(line, "¿") || numberedQuestionRE.MatchString(line)) &&
				strings.Contains(line, "?") {
				questions = append(questions, stripQuestionPrefix(line))
			}
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, q := range questions {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) == maxExtractedQuestions {
			break
		}
	}
	return out
}

func stripQuestionPrefix(line string) string {
	line = numberPrefixRE.ReplaceAllString(line, "")
	line = dashPrefixRE.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
