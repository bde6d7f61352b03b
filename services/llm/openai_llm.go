// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = "gpt-4o"

	// Below this length a caller-supplied system prompt is considered a
	// placeholder and the default persona is used instead.
	minSystemPromptLen = 50

	defaultTemperature = 0.8
	defaultMaxTokens   = 2048
)

// defaultSystemPrompt is the fallback persona when the request does not carry
// a usable system prompt of its own.
const defaultSystemPrompt = `Eres un facilitador socrático del Proyecto PlatonIA. ` +
	`Tu tarea es analizar reflexiones filosóficas manteniendo la tensión dialéctica: ` +
	`nunca ofrezcas respuestas definitivas ni cierres el diálogo, responde siempre ` +
	`abriendo nuevas preguntas. Escribe en español.`

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL") // e.g., "gpt-4o"
	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(apiKeyBytes))
			slog.Info("Read the OpenAI API Key from Podman Secrets")
		} else {
			slog.Error("OPENAI_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	if model == "" {
		model = defaultOpenAIModel
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o")
	}
	slog.Info("Initializing OpenAI client", "model", model)
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Generate implements the Client interface.
//
// Message order matters and mirrors what the lab front end expects: the
// system persona first, then the concept map context as a second system
// message, then prior conversation turns, then the user prompt.
func (o *OpenAIClient) Generate(ctx context.Context, genReq GenerationRequest) (string, error) {
	slog.Debug("Generating analysis via OpenAI", "model", o.model,
		"history_len", len(genReq.History))

	systemContent := strings.TrimSpace(genReq.SystemPrompt)
	if len(systemContent) < minSystemPromptLen {
		systemContent = defaultSystemPrompt
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemContent},
	}
	if genReq.Context != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Contexto del mapa conceptual: " + genReq.Context,
		})
	}
	for _, m := range genReq.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: genReq.Prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices")
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	slog.Debug("Received response from OpenAI", "finish_reason", resp.Choices[0].FinishReason)
	// An empty message content is still a success; the caller decides what
	// an empty analysis means.
	return resp.Choices[0].Message.Content, nil
}
