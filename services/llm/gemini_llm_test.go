// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelayClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("GEMINI_ENDPOINT", server.URL)
	client, err := NewGeminiClient()
	require.NoError(t, err)
	return client
}

func TestNewGeminiClient_RequiresEndpoint(t *testing.T) {
	t.Setenv("GEMINI_ENDPOINT", "")
	_, err := NewGeminiClient()
	assert.Error(t, err)
}

func TestGeminiGenerate_StringData(t *testing.T) {
	client := newRelayClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload geminiRelayRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "analiza el miedo", payload.Prompt)
		assert.Equal(t, "mapa", payload.Context)

		json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"data": "¿Qué revela el miedo sobre quien lo siente?",
		})
	})

	text, err := client.Generate(context.Background(), GenerationRequest{
		Prompt:  "analiza el miedo",
		Context: "mapa",
	})
	require.NoError(t, err)
	assert.Equal(t, "¿Qué revela el miedo sobre quien lo siente?", text)
}

func TestGeminiGenerate_WrappedData(t *testing.T) {
	client := newRelayClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"data": map[string]string{"text": "respuesta"},
		})
	})

	text, err := client.Generate(context.Background(), GenerationRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "respuesta", text)
}

func TestGeminiGenerate_RelayError(t *testing.T) {
	client := newRelayClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": "quota exceeded",
		})
	})

	_, err := client.Generate(context.Background(), GenerationRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiGenerate_HTTPError(t *testing.T) {
	client := newRelayClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.Generate(context.Background(), GenerationRequest{Prompt: "p"})
	assert.Error(t, err)
}
