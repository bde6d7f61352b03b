// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"strings"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
)

// fallbackLocalQuestions is how many stored questions are returned when no
// node relates to any question. The pipeline never hands back zero questions
// from local data alone, even for irrelevant input.
const fallbackLocalQuestions = 2

// aggregateQuestions selects every stored question whose related node set
// intersects matchedNodeIDs, comparing ids case-insensitively. The filter is
// stable: storage order among the selected questions is preserved, never
// re-sorted.
//
// When the selection is empty, including when matchedNodeIDs is empty, the
// first two questions in storage order are returned unconditionally.
func aggregateQuestions(matchedNodeIDs []string, allQuestions []graph.SocraticQuestion) []graph.SocraticQuestion {
	wanted := make(map[string]bool, len(matchedNodeIDs))
	for _, id := range matchedNodeIDs {
		wanted[strings.ToLower(id)] = true
	}

	var selected []graph.SocraticQuestion
	for _, q := range allQuestions {
		for _, rel := range q.RelatedNodeIDs {
			if wanted[strings.ToLower(rel)] {
				selected = append(selected, q)
				break
			}
		}
	}

	if len(selected) == 0 {
		n := fallbackLocalQuestions
		if n > len(allQuestions) {
			n = len(allQuestions)
		}
		selected = append(selected, allQuestions[:n]...)
	}
	return selected
}
