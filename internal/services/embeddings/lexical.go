package embeddings

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/explicare/explicare/internal/interfaces"
)

// defaultLexicalDimension keeps hashed vectors small enough to persist
// per-document without a vector database.
const defaultLexicalDimension = 512

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// LexicalEmbedder is a deterministic offline embedder. It hashes word
// tokens into a fixed-size term-frequency vector and L2-normalizes it,
// so cosine similarity degrades to lexical overlap. Used when no cloud
// embedding backend is configured; indexes it produces are never mixed
// with cloud ones because the backend name is part of the index path.
type LexicalEmbedder struct {
	dimension int
	stopwords map[string]struct{}
}

// NewLexicalEmbedder creates an offline hashing embedder. A dimension
// of zero selects the default.
func NewLexicalEmbedder(dimension int) interfaces.EmbeddingService {
	if dimension <= 0 {
		dimension = defaultLexicalDimension
	}
	return &LexicalEmbedder{
		dimension: dimension,
		stopwords: defaultStopwords(),
	}
}

// GenerateEmbedding computes the hashed term-frequency vector for text.
func (e *LexicalEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	vec := make([]float32, e.dimension)
	total := 0
	for _, tok := range e.tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dimension]++
		total++
	}
	if total == 0 {
		return vec, nil
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

// GenerateQueryEmbedding embeds a query the same way as chunk text.
func (e *LexicalEmbedder) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return e.GenerateEmbedding(ctx, query)
}

// BackendName returns the backend identifier used in persisted index paths.
func (e *LexicalEmbedder) BackendName() string {
	return "lexical"
}

// Dimension returns the embedding dimension
func (e *LexicalEmbedder) Dimension() int {
	return e.dimension
}

// IsAvailable always reports true; the lexical backend has no remote
// dependency.
func (e *LexicalEmbedder) IsAvailable(_ context.Context) bool {
	return true
}

func (e *LexicalEmbedder) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
