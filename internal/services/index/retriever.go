package index

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/models"
)

const (
	defaultTopK            = 5
	defaultSimilarityFloor = 0.2
	defaultDedupThreshold  = 0.9
	defaultOverfetchFactor = 3
)

var wordPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// RetrieverOptions tune the relevance pipeline. Zero values select the
// defaults.
type RetrieverOptions struct {
	TopK            int
	SimilarityFloor float64
	DedupThreshold  float64
	OverfetchFactor int
}

// Retriever answers queries against a document index: it overfetches
// candidates, drops those below the similarity floor, removes
// near-duplicates, and returns at most TopK chunks in descending score
// order.
type Retriever struct {
	embedder interfaces.EmbeddingService
	opts     RetrieverOptions
	logger   arbor.ILogger
}

// NewRetriever creates a retriever over the given embedder.
func NewRetriever(embedder interfaces.EmbeddingService, opts RetrieverOptions, logger arbor.ILogger) *Retriever {
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if opts.SimilarityFloor <= 0 {
		opts.SimilarityFloor = defaultSimilarityFloor
	}
	if opts.DedupThreshold <= 0 {
		opts.DedupThreshold = defaultDedupThreshold
	}
	if opts.OverfetchFactor <= 0 {
		opts.OverfetchFactor = defaultOverfetchFactor
	}
	return &Retriever{
		embedder: embedder,
		opts:     opts,
		logger:   logger,
	}
}

// Retrieve returns the most relevant chunks for a query. An empty
// result means nothing in the document cleared the similarity floor.
func (r *Retriever) Retrieve(ctx context.Context, ix *Index, query string) ([]models.ScoredChunk, error) {
	queryVec, err := r.embedder.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return r.RetrieveByVector(ix, queryVec), nil
}

// RetrieveByVector runs the relevance pipeline for an already-embedded
// query.
func (r *Retriever) RetrieveByVector(ix *Index, queryVec []float32) []models.ScoredChunk {
	candidates := ix.Search(queryVec, r.opts.TopK*r.opts.OverfetchFactor)

	var kept []models.ScoredChunk
	for _, c := range candidates {
		if c.Score < r.opts.SimilarityFloor {
			continue
		}
		if r.isDuplicate(c.Chunk.Text, kept) {
			continue
		}
		kept = append(kept, c)
		if len(kept) >= r.opts.TopK {
			break
		}
	}

	r.logger.Debug().
		Int("candidates", len(candidates)).
		Int("kept", len(kept)).
		Msg("Retrieved chunks")

	return kept
}

// isDuplicate reports whether text is a near-duplicate of any already
// kept chunk, using Jaccard similarity over word sets.
func (r *Retriever) isDuplicate(text string, kept []models.ScoredChunk) bool {
	words := wordSet(text)
	for _, k := range kept {
		if jaccard(words, wordSet(k.Chunk.Text)) >= r.opts.DedupThreshold {
			return true
		}
	}
	return false
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		set[w] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
