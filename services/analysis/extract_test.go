// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractQuestions_InvertedMarkLines(t *testing.T) {
	text := "Un análisis denso.\n¿Qué supuestos sostienen tu pregunta?\nOtra línea."
	got := extractQuestions(text)
	require.Len(t, got, 1)
	assert.Equal(t, "¿Qué supuestos sostienen tu pregunta?", got[0])
}

func TestExtractQuestions_NumberedAndDashedLines(t *testing.T) {
	text := "1. ¿Quién se beneficia de esta certeza?\n- ¿Qué queda fuera del relato oficial?"
	got := extractQuestions(text)
	require.Len(t, got, 2)
	assert.Equal(t, "¿Quién se beneficia de esta certeza?", got[0])
	assert.Equal(t, "¿Qué queda fuera del relato oficial?", got[1])
}

func TestExtractQuestions_RejectsShortOrMalformedLines(t *testing.T) {
	text := "¿Y?\n¿Esta línea es larga pero no cierra\n¿Qué miedo habita debajo de esta pregunta?"
	got := extractQuestions(text)
	require.Len(t, got, 1)
	assert.Equal(t, "¿Qué miedo habita debajo de esta pregunta?", got[0])
}

func TestExtractQuestions_LabeledSection(t *testing.T) {
	text := "Análisis profundo del problema.\n\n" +
		"PREGUNTAS SOCRÁTICAS:\n" +
		"¿Desde dónde formulas tu certeza?\n" +
		"¿Qué contradicción estás evitando?\n\n" +
		"Cierre del análisis."
	got := extractQuestions(text)
	require.Len(t, got, 2)
	assert.Equal(t, "¿Desde dónde formulas tu certeza?", got[0])
	assert.Equal(t, "¿Qué contradicción estás evitando?", got[1])
}

func TestExtractQuestions_DeduplicatesAcrossBodyAndSection(t *testing.T) {
	text := "¿Desde dónde formulas tu certeza?\n\n" +
		"PREGUNTAS:\n" +
		"¿Desde dónde formulas tu certeza?"
	got := extractQuestions(text)
	assert.Len(t, got, 1)
}

func TestExtractQuestions_CapsAtThree(t *testing.T) {
	text := "¿Primera pregunta suficientemente larga?\n" +
		"¿Segunda pregunta suficientemente larga?\n" +
		"¿Tercera pregunta suficientemente larga?\n" +
		"¿Cuarta pregunta suficientemente larga?"
	got := extractQuestions(text)
	assert.Len(t, got, 3)
}

func TestExtractQuestions_NoQuestions(t *testing.T) {
	assert.Empty(t, extractQuestions("Texto declarativo sin preguntas."))
	assert.Empty(t, extractQuestions(""))
}
