package interfaces

import (
	"context"
)

// EmbeddingService generates vector embeddings for chunks and queries.
// The backend name is encoded into persisted index paths so that swapping
// backends never loads vectors produced by a different model.
type EmbeddingService interface {
	// Generate embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Generate query embedding (may have different handling than
	// document embedding)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Backend identity, used in persisted index paths
	BackendName() string
	Dimension() int

	// Check if service is available
	IsAvailable(ctx context.Context) bool
}
