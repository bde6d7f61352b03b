package llm

import (
	"context"
	"fmt"
)

// Message is one turn of a conversation passed through to the model provider.
// Role is "user", "assistant" or "system".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationRequest bundles everything a backend needs to produce an
// analysis: the user-facing prompt, an optional context block (the concept
// map dump), an optional system prompt, and prior conversation turns.
type GenerationRequest struct {
	Prompt       string    `json:"prompt"`
	Context      string    `json:"context,omitempty"`
	SystemPrompt string    `json:"systemPrompt,omitempty"`
	History      []Message `json:"conversationHistory,omitempty"`
}

// Client defines the standard interface for any LLM backend.
//
// A nil error with an empty string is a usable (if vacuous) success; callers
// must not treat emptiness as failure.
type Client interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// NewClient builds the backend selected by name. Supported backends:
// "openai" and "gemini".
func NewClient(backend string) (Client, error) {
	switch backend {
	case "openai", "":
		return NewOpenAIClient()
	case "gemini":
		return NewGeminiClient()
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", backend)
	}
}
