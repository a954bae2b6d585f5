// Package provider abstracts the chat completion backends behind a single
// Client interface. Three backends are supported: Google (through Genkit),
// and Groq and OpenRouter (through their OpenAI-compatible HTTP APIs).
//
// Clients are resolved by name via Resolve, which also enforces that the
// provider's API key is present in the environment. Callers treat every
// backend failure as ErrProvider and decide themselves whether to degrade
// or surface the error.
package provider

import (
	"context"
	"errors"
)

var (
	// ErrProvider indicates the completion backend failed.
	ErrProvider = errors.New("provider backend failure")

	// ErrEmptyCompletion indicates the backend returned no usable text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Request is a single chat completion request.
type Request struct {
	// System is the system prompt. Empty means no system message.
	System string

	// Prompt is the user message.
	Prompt string

	// Temperature is the sampling temperature for this request.
	Temperature float64

	// MaxTokens caps the completion length.
	MaxTokens int
}

// Client is a chat completion backend.
// Implementations must be safe for concurrent use.
type Client interface {
	// Name returns the provider name ("google", "groq", "openrouter").
	Name() string

	// Generate returns the completion text for the request.
	// Failures are wrapped in ErrProvider.
	Generate(ctx context.Context, req Request) (string, error)
}
