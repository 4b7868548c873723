package chat

import (
	"strings"
	"testing"

	"github.com/explicare/explicare/internal/models"
)

func scored(texts ...string) []models.ScoredChunk {
	out := make([]models.ScoredChunk, len(texts))
	for i, t := range texts {
		out[i] = models.ScoredChunk{
			Chunk: models.Chunk{Index: i, Text: t},
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return out
}

func TestAssembleContext_Labels(t *testing.T) {
	block, used := AssembleContext(scored("first chunk", "second chunk"), 8000)

	if used != 2 {
		t.Fatalf("used = %d, want 2", used)
	}
	if !strings.Contains(block, "[Doc 1]\nfirst chunk") {
		t.Error("missing first labelled chunk")
	}
	if !strings.Contains(block, "[Doc 2]\nsecond chunk") {
		t.Error("missing second labelled chunk")
	}
}

func TestAssembleContext_BudgetDropsWholeChunks(t *testing.T) {
	big := strings.Repeat("a", 90)
	chunks := scored(big, big, big)

	// Each piece is ~100 chars with labels; a 250 budget fits two.
	block, used := AssembleContext(chunks, 250)

	if used != 2 {
		t.Fatalf("used = %d, want 2", used)
	}
	// Overflow drops the whole chunk, never a truncated tail.
	if strings.Count(block, big) != 2 {
		t.Errorf("expected exactly 2 complete chunks in context")
	}
}

func TestAssembleContext_StopsAtFirstOverflow(t *testing.T) {
	small := "tiny"
	big := strings.Repeat("b", 500)

	// The big chunk overflows; the small one after it must not sneak in.
	block, used := AssembleContext(scored(small, big, small), 100)

	if used != 1 {
		t.Fatalf("used = %d, want 1", used)
	}
	if strings.Contains(block, "[Doc 3]") {
		t.Error("chunk after the overflow was included")
	}
}

func TestAssembleContext_Empty(t *testing.T) {
	block, used := AssembleContext(nil, 8000)
	if block != "" || used != 0 {
		t.Errorf("expected empty context, got %q (%d chunks)", block, used)
	}
}
