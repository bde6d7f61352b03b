// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lagrange.llm.gemini")

// GeminiClient talks to a Gemini relay endpoint that accepts the same JSON
// envelope the lab front end sends. The relay owns the provider API key; this
// client only needs the endpoint URL.
type GeminiClient struct {
	httpClient *http.Client
	endpoint   string
}

type geminiRelayRequest struct {
	Prompt       string    `json:"prompt"`
	Context      string    `json:"context,omitempty"`
	SystemPrompt string    `json:"systemPrompt,omitempty"`
	History      []Message `json:"conversationHistory,omitempty"`
}

type geminiRelayResponse struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

func NewGeminiClient() (*GeminiClient, error) {
	endpoint := os.Getenv("GEMINI_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("GEMINI_ENDPOINT environment variable not set")
	}
	endpoint = strings.TrimSuffix(endpoint, "/")
	slog.Info("Initializing Gemini relay client", "endpoint", endpoint)
	return &GeminiClient{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		endpoint:   endpoint,
	}, nil
}

// Generate implements the Client interface.
func (g *GeminiClient) Generate(ctx context.Context, genReq GenerationRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "GeminiClient.Generate")
	defer span.End()
	span.SetAttributes(attribute.Int("llm.history_len", len(genReq.History)))
	slog.Debug("Generating analysis via the Gemini relay")

	payload := geminiRelayRequest{
		Prompt:       genReq.Prompt,
		Context:      genReq.Context,
		SystemPrompt: genReq.SystemPrompt,
		History:      genReq.History,
	}
	reqBodyBytes, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to marshal request to the Gemini relay: %w", err)
	}

	// Use NewRequestWithContext to respect context cancellation/timeout
	req, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to create request to the Gemini relay: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Gemini relay call failed", "error", err)
		return "", fmt.Errorf("Gemini relay call failed: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to read response body from the Gemini relay: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Gemini relay returned an error", "status_code", resp.StatusCode,
			"response", string(respBodyBytes))
		return "", fmt.Errorf("Gemini relay failed with status %d: %s",
			resp.StatusCode, string(respBodyBytes))
	}

	var relayResp geminiRelayResponse
	if err := json.Unmarshal(respBodyBytes, &relayResp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Failed to parse JSON response from the Gemini relay", "error", err,
			"response", string(respBodyBytes))
		return "", fmt.Errorf("failed to parse the Gemini relay response: %w", err)
	}
	if !relayResp.OK {
		return "", fmt.Errorf("Gemini relay reported an error: %s", relayResp.Error)
	}

	// The relay returns either a bare string or an object with a "text"
	// field, depending on its version. Accept both.
	var text string
	if err := json.Unmarshal(relayResp.Data, &text); err == nil {
		return text, nil
	}
	var wrapped struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(relayResp.Data, &wrapped); err == nil {
		return wrapped.Text, nil
	}
	return "", fmt.Errorf("Gemini relay returned an unrecognized data payload")
}
