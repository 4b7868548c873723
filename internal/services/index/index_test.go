package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/models"
	"github.com/explicare/explicare/internal/services/chunker"
	"github.com/explicare/explicare/internal/services/embeddings"
)

// createTestLogger creates a logger for testing
func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func buildTestIndex(t *testing.T, texts []string) *Index {
	t.Helper()
	embedder := embeddings.NewLexicalEmbedder(128)

	chunks := make([]models.Chunk, len(texts))
	vectors := make([][]float32, len(texts))
	for i, txt := range texts {
		chunks[i] = models.Chunk{Index: i, Text: txt}
		vec, err := embedder.GenerateEmbedding(context.Background(), txt)
		if err != nil {
			t.Fatalf("embed chunk %d: %v", i, err)
		}
		vectors[i] = vec
	}

	ix, err := New(embedder.BackendName(), embedder.Dimension(), chunks, vectors)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ix
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	ix := buildTestIndex(t, []string{
		"The tenant shall pay rent on the first of each month.",
		"The security deposit is refundable within thirty days.",
		"Either party may terminate with sixty days written notice.",
	})

	dir := filepath.Join(t.TempDir(), DirName("lexical", "abc123"))
	if err := ix.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir, "lexical")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Chunks) != 3 || len(loaded.Vectors) != 3 {
		t.Errorf("loaded %d chunks / %d vectors, want 3 / 3", len(loaded.Chunks), len(loaded.Vectors))
	}
	if loaded.Chunks[1].Text != ix.Chunks[1].Text {
		t.Error("chunk text not preserved through round trip")
	}
}

func TestLoad_RejectsBackendMismatch(t *testing.T) {
	ix := buildTestIndex(t, []string{"The tenant shall pay rent monthly without exception."})
	dir := filepath.Join(t.TempDir(), DirName("lexical", "abc123"))
	if err := ix.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := Load(dir, "gemini"); err == nil {
		t.Error("expected error loading lexical index as gemini backend")
	}
}

func TestRetriever_AtMostTopK(t *testing.T) {
	texts := []string{
		"Rent is due on the first of every month payable to the landlord.",
		"Rent payments after the fifth day incur a late fee.",
		"Monthly rent covers water but not electricity or gas.",
		"The rent amount increases three percent at each renewal.",
		"Rent must be paid by check or electronic transfer only.",
		"Unpaid rent accrues interest at the statutory rate.",
		"Prepaid rent is applied to the final month of the term.",
	}
	ix := buildTestIndex(t, texts)

	embedder := embeddings.NewLexicalEmbedder(128)
	r := NewRetriever(embedder, RetrieverOptions{TopK: 3, SimilarityFloor: 0.01}, createTestLogger())

	results, err := r.Retrieve(context.Background(), ix, "when is rent due and how much")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) > 3 {
		t.Errorf("got %d results, want at most 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending score order at %d", i)
		}
	}
}

func TestRetriever_DropsNearDuplicates(t *testing.T) {
	dup := "The security deposit shall be returned within thirty days of lease termination."
	ix := buildTestIndex(t, []string{
		dup,
		dup, // identical chunk appearing twice in the document
		"Pets are not permitted anywhere on the premises at any time.",
	})

	embedder := embeddings.NewLexicalEmbedder(128)
	r := NewRetriever(embedder, RetrieverOptions{TopK: 5, SimilarityFloor: 0.01}, createTestLogger())

	results, err := r.Retrieve(context.Background(), ix, "when is the security deposit returned")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	seen := 0
	for _, res := range results {
		if res.Chunk.Text == dup {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("duplicate chunk returned %d times, want exactly 1", seen)
	}
}

func TestRetriever_EmptyBelowFloor(t *testing.T) {
	ix := buildTestIndex(t, []string{
		"Pets are not permitted anywhere on the premises at any time.",
	})

	embedder := embeddings.NewLexicalEmbedder(128)
	r := NewRetriever(embedder, RetrieverOptions{TopK: 5, SimilarityFloor: 0.99}, createTestLogger())

	results, err := r.Retrieve(context.Background(), ix, "quarterly dividend reinvestment schedule")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0 when nothing clears the floor", len(results))
	}
}

func TestBuilder_BuildOrLoadReusesPersistedIndex(t *testing.T) {
	embedder := embeddings.NewLexicalEmbedder(128)
	ch := chunker.New(chunker.Options{ChunkSize: 200, MinChunkLength: 10})
	b := NewBuilder(t.TempDir(), ch, embedder, createTestLogger())

	text := "The tenant shall pay rent on the first of each month. " +
		"The security deposit is refundable within thirty days of termination. " +
		"Either party may terminate this agreement with sixty days written notice."

	first, err := b.BuildOrLoad(context.Background(), "fp1", text)
	if err != nil {
		t.Fatalf("BuildOrLoad (build): %v", err)
	}

	// Second call must load from disk; passing empty text proves no rebuild.
	second, err := b.BuildOrLoad(context.Background(), "fp1", "")
	if err != nil {
		t.Fatalf("BuildOrLoad (load): %v", err)
	}
	if len(second.Chunks) != len(first.Chunks) {
		t.Errorf("loaded %d chunks, built %d", len(second.Chunks), len(first.Chunks))
	}
}

func TestBuilder_EmptyTextFails(t *testing.T) {
	embedder := embeddings.NewLexicalEmbedder(128)
	ch := chunker.New(chunker.Options{ChunkSize: 200, MinChunkLength: 10})
	b := NewBuilder(t.TempDir(), ch, embedder, createTestLogger())

	if _, err := b.Build(context.Background(), "fp2", "   "); err == nil {
		t.Error("expected error building index from blank text")
	}
}
