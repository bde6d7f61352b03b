// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tension

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	return e
}

func TestNewEngine_LoadsEmbeddedRules(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, 14, e.VocabularySize())
}

func TestNewEngineFromBytes_RejectsEmptyVocabulary(t *testing.T) {
	_, err := NewEngineFromBytes([]byte("vocabulary: []"))
	assert.Error(t, err)
}

func TestNewEngineFromBytes_RejectsInvalidRegex(t *testing.T) {
	data := []byte(`
vocabulary: ["tensión"]
definitive:
  warning: w
  patterns:
    - id: broken
      regex: "(["
`)
	_, err := NewEngineFromBytes(data)
	assert.Error(t, err)
}

func TestScore_Bounds(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, 0, e.Score("", ""))
	assert.Equal(t, 0, e.Score("hola mundo", "sin términos relevantes"))

	// All vocabulary terms present saturates at 10.
	all := strings.Join([]string{
		"contradicción", "conflicto", "paradoja", "tensión", "ambiguo",
		"incierto", "cuestionar", "supuesto", "oculto", "verdad",
		"poder", "control", "miedo", "legitimidad",
	}, " ")
	assert.Equal(t, 10, e.Score(all, ""))
}

func TestScore_DistinctTermsNotOccurrences(t *testing.T) {
	e := newTestEngine(t)

	once := e.Score("miedo", "")
	repeated := e.Score("miedo miedo miedo miedo", "")
	assert.Equal(t, once, repeated)
	assert.Equal(t, 1, once) // round(10 * 1/14)
}

func TestScore_CaseInsensitiveAndDeterministic(t *testing.T) {
	e := newTestEngine(t)

	a := e.Score("El MIEDO y el Poder", "una PARADOJA")
	b := e.Score("El MIEDO y el Poder", "una PARADOJA")
	assert.Equal(t, a, b)
	assert.Equal(t, e.Score("el miedo y el poder", "una paradoja"), a)
	assert.GreaterOrEqual(t, a, 0)
	assert.LessOrEqual(t, a, 10)
}

func TestValidate_LowTensionWarning(t *testing.T) {
	e := newTestEngine(t)

	warnings := e.Validate("texto neutro", 2)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "tensión dialéctica es bajo")

	assert.Empty(t, e.Validate("texto neutro", 3))
}

func TestValidate_DefinitiveWarningEmittedOnce(t *testing.T) {
	e := newTestEngine(t)

	// Three different definitive patterns in one text must yield a single
	// definitive warning.
	text := "La verdad es que sin duda es obvio que tengo razón."
	warnings := e.Validate(text, 5)

	definitive := 0
	for _, w := range warnings {
		if strings.Contains(w, "afirmaciones definitivas") {
			definitive++
		}
	}
	assert.Equal(t, 1, definitive)
}

func TestValidate_AgreementRequiresTwoDistinctPatterns(t *testing.T) {
	e := newTestEngine(t)

	// One agreement pattern alone is tolerated.
	assert.Empty(t, e.Validate("Exactamente como dices.", 5))

	// Two distinct patterns trigger the warning, regardless of repetition.
	warnings := e.Validate("Exactamente. Estoy de acuerdo contigo.", 5)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Exceso de afirmación")
}

func TestValidate_ChecksAreIndependent(t *testing.T) {
	e := newTestEngine(t)

	warnings := e.Validate("Sin duda tienes razón, estoy de acuerdo.", 0)
	assert.Len(t, warnings, 3)
}
