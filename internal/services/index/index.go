// Package index persists per-document similarity indexes on the
// filesystem and answers cosine-similarity searches over them.
package index

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/explicare/explicare/internal/models"
)

const indexFileName = "index.json"

// Index holds a document's chunks and their embedding vectors. Vectors
// are stored L2-normalized so search reduces to a dot product.
type Index struct {
	Backend   string         `json:"backend"`
	Dimension int            `json:"dimension"`
	Chunks    []models.Chunk `json:"chunks"`
	Vectors   [][]float32    `json:"vectors"`
}

// DirName returns the on-disk directory name for a document index. The
// embedding backend is part of the name so that indexes built by one
// backend are never loaded by another.
func DirName(backend, fingerprint string) string {
	return fmt.Sprintf("vs_%s_%s", backend, fingerprint)
}

// New creates an index from parallel chunk and vector slices.
func New(backend string, dimension int, chunks []models.Chunk, vectors [][]float32) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d dimension mismatch: got %d, want %d", i, len(v), dimension)
		}
	}
	return &Index{
		Backend:   backend,
		Dimension: dimension,
		Chunks:    chunks,
		Vectors:   vectors,
	}, nil
}

// Search returns the topK most similar chunks to the query vector, in
// descending score order. Ties keep original chunk order.
func (ix *Index) Search(query []float32, topK int) []models.ScoredChunk {
	if topK <= 0 || len(ix.Vectors) == 0 {
		return nil
	}

	results := make([]models.ScoredChunk, len(ix.Vectors))
	for i, vec := range ix.Vectors {
		results[i] = models.ScoredChunk{
			Chunk: ix.Chunks[i],
			Score: cosineSimilarity(query, vec),
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// Save writes the index under dir, creating it if needed.
func (ix *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	path := filepath.Join(dir, indexFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// Load reads a persisted index from dir. It verifies the backend name
// so a stale directory from a different embedder is rejected rather
// than searched.
func Load(dir, backend string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, indexFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}

	if ix.Backend != backend {
		return nil, fmt.Errorf("index backend mismatch: stored %q, want %q", ix.Backend, backend)
	}
	if len(ix.Chunks) != len(ix.Vectors) {
		return nil, fmt.Errorf("corrupt index: %d chunks, %d vectors", len(ix.Chunks), len(ix.Vectors))
	}
	return &ix, nil
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
