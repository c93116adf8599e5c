// Package llm wraps the chat-completion APIs used to turn transcripts into notes.
package llm

import "context"

// Provider is a chat-completion backend.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the provider identifier, e.g. "google".
	Name() string
}
