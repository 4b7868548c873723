package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/services/chunker"
)

// Builder creates and caches per-document similarity indexes under a
// base directory. Concurrent builds for the same fingerprint are
// harmless: both produce identical content and the last write wins.
type Builder struct {
	baseDir  string
	chunker  *chunker.Chunker
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

// NewBuilder creates an index builder rooted at baseDir.
func NewBuilder(baseDir string, ch *chunker.Chunker, embedder interfaces.EmbeddingService, logger arbor.ILogger) *Builder {
	return &Builder{
		baseDir:  baseDir,
		chunker:  ch,
		embedder: embedder,
		logger:   logger,
	}
}

// Dir returns the index directory for a fingerprint under this builder's
// base directory.
func (b *Builder) Dir(fingerprint string) string {
	return filepath.Join(b.baseDir, DirName(b.embedder.BackendName(), fingerprint))
}

// BuildOrLoad returns the persisted index for a fingerprint, building
// it from text when absent or unreadable. Text that produces zero
// chunks is an error: an index with no entries can never answer a
// query.
func (b *Builder) BuildOrLoad(ctx context.Context, fingerprint, text string) (*Index, error) {
	dir := b.Dir(fingerprint)

	if ix, err := Load(dir, b.embedder.BackendName()); err == nil {
		b.logger.Debug().
			Str("fingerprint", fingerprint).
			Int("chunks", len(ix.Chunks)).
			Msg("Loaded persisted index")
		return ix, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		// A corrupt or mismatched index is rebuilt, not fatal.
		b.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Discarding unreadable index, rebuilding")
	}

	return b.Build(ctx, fingerprint, text)
}

// Build chunks, embeds, and persists an index for a fingerprint.
func (b *Builder) Build(ctx context.Context, fingerprint, text string) (*Index, error) {
	start := time.Now()

	chunks := b.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no indexable chunks in document text")
	}

	vectors := make([][]float32, len(chunks))
	for i, ch := range chunks {
		vec, err := b.embedder.GenerateEmbedding(ctx, ch.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", ch.Index, err)
		}
		vectors[i] = vec
	}

	ix, err := New(b.embedder.BackendName(), b.embedder.Dimension(), chunks, vectors)
	if err != nil {
		return nil, err
	}

	dir := b.Dir(fingerprint)
	if err := ix.Save(dir); err != nil {
		// Search still works this request; only the cache is lost.
		b.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to persist index")
	}

	b.logger.Info().
		Str("fingerprint", fingerprint).
		Str("backend", b.embedder.BackendName()).
		Int("chunks", len(chunks)).
		Dur("duration", time.Since(start)).
		Msg("Built similarity index")

	return ix, nil
}
