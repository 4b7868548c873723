// Package chunker splits normalized text into bounded, overlapping-free
// segments preferring sentence boundaries. Chunking is deterministic: the
// same text and parameters always yield the same chunk sequence, in original
// document order.
package chunker

import (
	"regexp"
	"strings"

	"github.com/explicare/explicare/internal/models"
)

// sentenceEnd matches sentence-terminal punctuation followed by whitespace.
var sentenceEnd = regexp.MustCompile(`(?s)([.!?])\s+`)

// Options are the fixed chunking parameters.
type Options struct {
	ChunkSize      int // Target maximum chunk size in characters
	MinChunkLength int // Trimmed chunks shorter than this are dropped
	MaxChunks      int // 0 = unlimited; otherwise keep the first N
}

// Chunker produces chunks from document text.
type Chunker struct {
	opts Options
}

// New creates a chunker, substituting safe defaults for zero values.
func New(opts Options) *Chunker {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	if opts.MinChunkLength < 0 {
		opts.MinChunkLength = 0
	}
	return &Chunker{opts: opts}
}

// Chunk splits text into sentence-like units and greedily accumulates them
// into chunks of at most ChunkSize characters. A unit that would overflow the
// buffer flushes it and starts the next chunk. Chunks shorter than
// MinChunkLength after trimming are discarded; if MaxChunks is set the
// sequence is truncated to the first N.
func (c *Chunker) Chunk(text string) []models.Chunk {
	units := splitSentences(text)

	var raw []string
	var buf strings.Builder
	for _, u := range units {
		if buf.Len() > 0 && buf.Len()+len(u) > c.opts.ChunkSize {
			if s := strings.TrimSpace(buf.String()); s != "" {
				raw = append(raw, s)
			}
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(u)
	}
	if s := strings.TrimSpace(buf.String()); s != "" {
		raw = append(raw, s)
	}

	chunks := make([]models.Chunk, 0, len(raw))
	for _, s := range raw {
		if len(s) < c.opts.MinChunkLength {
			continue
		}
		chunks = append(chunks, models.Chunk{Index: len(chunks), Text: s})
	}

	if c.opts.MaxChunks > 0 && len(chunks) > c.opts.MaxChunks {
		chunks = chunks[:c.opts.MaxChunks]
	}
	return chunks
}

// splitSentences breaks text on sentence-terminal punctuation followed by
// whitespace, keeping the punctuation with the preceding unit.
func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x1f")
	parts := strings.Split(marked, "\x1f")

	units := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			units = append(units, p)
		}
	}
	return units
}
