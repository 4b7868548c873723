package interfaces

import (
	"context"
)

// ChatRequest is a retrieval-augmented chat turn for one user.
type ChatRequest struct {
	// Owning user; their documents form the retrieval corpus
	UserID string `json:"user_id"`

	// The user's question
	Query string `json:"query"`
}

// ChatResponse is the generated answer. Failures degrade to an apologetic
// Message rather than an error, so callers always receive a response shape.
type ChatResponse struct {
	Message string `json:"message"`

	// Number of context chunks assembled into the prompt
	ContextChunks int `json:"context_chunks"`

	// Model used
	Model string `json:"model"`
}

// ChatService provides RAG-enabled chat over a user's documents.
type ChatService interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// HealthCheck verifies the chat service is operational
	HealthCheck(ctx context.Context) error
}
