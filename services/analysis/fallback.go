// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
)

// Canned analyses used when the model is unreachable. The %s slot receives a
// truncated copy of the user input.
var fallbackAnalyses = []string{
	`Tu pregunta sobre "%s..." revela una tensión fundamental entre lo que asumimos y lo que ` +
		`realmente sabemos. ¿Has considerado que la premisa misma de tu pregunta podría estar ` +
		`condicionada por estructuras de poder que das por naturales?`,
	`Interesante planteamiento sobre "%s...". Pero pregunto: ¿desde qué posición de certeza formulas ` +
		`esta inquietud? El Sistema Lagrange nos recuerda que toda pregunta contiene ya una respuesta ` +
		`implícita. ¿Cuál es la que estás evitando formular?`,
	`Antes de responder a "%s...", debo señalar que tu formulación asume varios supuestos. El eje del ` +
		`miedo (L1) nos enseña que muchas de nuestras preguntas nacen de ansiedades que preferimos no ` +
		`nombrar. ¿Qué miedo habita debajo de esta pregunta?`,
}

var fallbackQuestions = []GeneratedQuestion{
	{ID: "fallback-q1", Text: "¿Qué pasaría si la respuesta que buscas no existiera?", Axis: "general"},
	{ID: "fallback-q2", Text: "¿Quién te enseñó a formular preguntas de esta manera?", Axis: "general"},
	{ID: "fallback-q3", Text: "¿Cómo cambiaría tu vida si supieras que estás equivocado?", Axis: "general"},
}

var fallbackNodeIDs = []string{"miedo", "verdad", "critica"}

const fallbackTensionLevel = 7

const fallbackInputPreviewLen = 50

// degradedResult builds the canned result returned when the model call
// fails. Template selection hashes the trimmed input, so the same input
// always degrades to the same text and repeated runs stay comparable.
func degradedResult(userInput string, snap graph.Snapshot) AnalysisResult {
	trimmed := strings.TrimSpace(userInput)

	h := fnv.New32a()
	h.Write([]byte(trimmed))
	template := fallbackAnalyses[int(h.Sum32())%len(fallbackAnalyses)]

	preview := []rune(trimmed)
	if len(preview) > fallbackInputPreviewLen {
		preview = preview[:fallbackInputPreviewLen]
	}

	nodeIDs := append([]string(nil), fallbackNodeIDs...)
	sort.Strings(nodeIDs)

	var matchedAxes []string
	axisSeen := make(map[string]bool)
	for _, id := range nodeIDs {
		node, ok := snap.NodeByID(id)
		if !ok || node.Axis == "" || axisSeen[strings.ToLower(node.Axis)] {
			continue
		}
		axisSeen[strings.ToLower(node.Axis)] = true
		matchedAxes = append(matchedAxes, node.Axis)
	}
	sort.Strings(matchedAxes)

	questions := append([]GeneratedQuestion(nil), fallbackQuestions...)

	return AnalysisResult{
		AnalysisText:       fmt.Sprintf(template, string(preview)),
		GeneratedQuestions: questions,
		RelatedNodeIDs:     nodeIDs,
		MatchedAxes:        matchedAxes,
		TensionLevel:       fallbackTensionLevel,
		Warnings:           []string{},
		Summary:            buildSummary(len(questions), matchedAxes),
		OK:                 true,
		Degraded:           true,
	}
}
