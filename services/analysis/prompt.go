// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph"
)

// basePrompt is the default socratic persona. It is sent verbatim to the
// model unless a target axis specializes it.
const basePrompt = `Eres un filósofo socrático especializado en análisis dialéctico profundo del Sistema Lagrange.

Tu tarea es realizar análisis filosóficos rigurosos que:

1. IDENTIFIQUEN TENSIONES: Localiza contradicciones, paradojas y tensiones dialécticas en el input.

2. EXPLOREN LÍMITES: Examina los límites conceptuales, zonas grises y ambigüedades productivas.

3. GENEREN PREGUNTAS PROFUNDAS: Formula preguntas socráticas que profundicen sin cerrar el problema.

4. MANTENGAN APERTURA: No resuelvas la tensión. Mantenla abierta como espacio de pensamiento crítico.

5. CONTEXTO LAGRANGIANO - Los cinco ejes de tensión:
   - L1: Miedo (ontología de la amenaza)
   - L2: Control (poder y gestión)
   - L3: Legitimidad (narrativas y verdad)
   - L4: Salud Mental (normalización y desviación)
   - L5: Responsabilidad (agencia y determinación)

REGLAS CRÍTICAS:
- NO simplificar ni consolar
- NO ofrecer "soluciones" o "respuestas definitivas"
- Revelar complejidad, no ocultarla
- Lenguaje preciso y riguroso
- La "Regla de Oro": mantener tensión dialéctica sin resolverla

FORMATO ESPERADO:
- Análisis filosófico profundo (2-3 párrafos densos)
- Identificación explícita de tensiones entre ejes
- 2-3 preguntas socráticas que profundicen el análisis`

// buildSystemPrompt specializes the base persona for a target axis. The axis
// id is matched case-insensitively; an unknown axis still gets a focus line
// so caller intent is never silently discarded.
func buildSystemPrompt(targetAxis string) string {
	if targetAxis == "" {
		return basePrompt
	}
	axisDetail := "Eje " + targetAxis
	if axis, ok := graph.AxisByID(targetAxis); ok {
		axisDetail = axis.Description
	}
	return basePrompt + "\n\nFOCO ESPECÍFICO: " + axisDetail +
		"\n\nAnaliza el input desde este eje, pero sin olvidar las tensiones con los otros ejes " +
		"del sistema. Identifica cómo este eje específico ilumina aspectos ocultos del problema."
}

// buildGraphContext dumps every node label and description as the model-facing
// description of the concept map.
func buildGraphContext(snap graph.Snapshot) string {
	var b strings.Builder
	b.WriteString("Nodos conceptuales del sistema:")
	for _, n := range snap.Nodes() {
		b.WriteString("\n- ")
		b.WriteString(n.Label)
		b.WriteString(": ")
		b.WriteString(n.Description)
	}
	return b.String()
}

// buildContext assembles the full context string: the graph dump, the
// pre-match node preview, the axis hint, and caller-supplied extra context,
// in that order. Empty pieces are omitted entirely.
func buildContext(snap graph.Snapshot, matchedNodeIDs []string, targetAxis, extra string) string {
	ctx := buildGraphContext(snap)
	if len(matchedNodeIDs) > 0 {
		ctx += "\n\nNodos relacionados identificados: " + strings.Join(matchedNodeIDs, ", ")
	}
	if targetAxis != "" {
		ctx += "\n\nEje objetivo: " + targetAxis
	}
	if extra != "" {
		ctx += "\n\nContexto adicional: " + extra
	}
	return ctx
}

// buildPrompt prefixes the user input with a timestamp line. The timestamp
// exists solely to defeat caching layers between this system and the model
// provider; it is not meaningful content.
func buildPrompt(userInput string, now time.Time) string {
	return fmt.Sprintf("[Timestamp: %s]\n\n%s", now.UTC().Format(time.RFC3339), userInput)
}
