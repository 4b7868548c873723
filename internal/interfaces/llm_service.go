package interfaces

import (
	"context"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"

	// LLMModeOffline indicates the service uses local/offline models
	LLMModeOffline LLMMode = "offline"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations including
// embedding generation and chat completions. Implementations wrap hosted
// providers (Gemini, Claude); the rest of the pipeline only sees this
// interface so backends stay swappable.
type LLMService interface {
	// Embed generates an embedding vector for the given text.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - text: Input text to generate embedding for
	//
	// Returns:
	//   - []float32: Embedding vector
	//   - error: Error if embedding generation fails or the provider
	//     does not support embeddings
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion response based on the conversation history.
	// The messages slice should contain the full conversation context
	// including system prompts, user messages, and previous assistant
	// responses, in chronological order.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the LLM service is operational and can handle
	// requests.
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode of the LLM service.
	GetMode() LLMMode

	// ModelName returns the chat model identifier in use.
	ModelName() string

	// Close releases resources and performs cleanup operations.
	Close() error
}
