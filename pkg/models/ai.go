// Package models contains shared data models used across the YakTalk codebase.
package models

import "context"

// TextUnderstanding classifies a user question following a fixed instruction.
// The reply is raw model output; callers validate it before use.
type TextUnderstanding interface {
	Classify(ctx context.Context, question, instruction string) (string, error)
}

// TextGenerator produces a free-text completion for a fully assembled prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIProvider is the core interface that all AI integrations must implement.
// Callers depend on this interface, never on a concrete provider.
type AIProvider interface {
	TextUnderstanding
	TextGenerator
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
}
