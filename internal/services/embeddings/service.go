package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
)

// Service implements EmbeddingService on top of an LLM provider.
type Service struct {
	llmService interfaces.LLMService
	dimension  int
	logger     arbor.ILogger
}

// NewService creates an embedding service backed by the given LLM provider.
func NewService(llmService interfaces.LLMService, dimension int, logger arbor.ILogger) interfaces.EmbeddingService {
	return &Service{
		llmService: llmService,
		dimension:  dimension,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	embedding, err := s.llmService.Embed(ctx, text)
	duration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("LLM service returned empty embedding")
	}

	s.logger.Debug().
		Int("embedding_dim", len(embedding)).
		Dur("duration", duration).
		Msg("Generated embedding")

	return embedding, nil
}

// GenerateQueryEmbedding generates embedding for a search query
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	// Queries go through the same path as chunk text; the backend model
	// does not distinguish the two.
	return s.GenerateEmbedding(ctx, query)
}

// BackendName returns the backend identifier used in persisted index paths.
func (s *Service) BackendName() string {
	return "gemini"
}

// Dimension returns the embedding dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable checks if the embedding service is available
func (s *Service) IsAvailable(ctx context.Context) bool {
	if s.llmService == nil {
		return false
	}

	if err := s.llmService.HealthCheck(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("LLM service not available")
		return false
	}

	return true
}
