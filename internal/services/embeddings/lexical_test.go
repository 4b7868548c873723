package embeddings

import (
	"context"
	"math"
	"testing"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestLexicalEmbedder_Deterministic(t *testing.T) {
	e := NewLexicalEmbedder(256)
	ctx := context.Background()

	first, err := e.GenerateEmbedding(ctx, "the tenant shall pay rent monthly")
	if err != nil {
		t.Fatalf("GenerateEmbedding: %v", err)
	}
	second, err := e.GenerateEmbedding(ctx, "the tenant shall pay rent monthly")
	if err != nil {
		t.Fatalf("GenerateEmbedding: %v", err)
	}

	if len(first) != 256 {
		t.Fatalf("dimension = %d, want 256", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("vectors differ at %d for identical text", i)
		}
	}
}

func TestLexicalEmbedder_Normalized(t *testing.T) {
	e := NewLexicalEmbedder(0)
	vec, err := e.GenerateEmbedding(context.Background(), "security deposit refund conditions")
	if err != nil {
		t.Fatalf("GenerateEmbedding: %v", err)
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-5 {
		t.Errorf("vector norm = %f, want 1.0", math.Sqrt(norm))
	}
}

func TestLexicalEmbedder_RelatedTextScoresHigher(t *testing.T) {
	e := NewLexicalEmbedder(512)
	ctx := context.Background()

	query, _ := e.GenerateQueryEmbedding(ctx, "when is the security deposit returned")
	related, _ := e.GenerateEmbedding(ctx, "the security deposit is returned within thirty days of lease end")
	unrelated, _ := e.GenerateEmbedding(ctx, "pets are not permitted anywhere on the premises")

	if cosine(query, related) <= cosine(query, unrelated) {
		t.Errorf("related chunk scored %f, unrelated %f; want related higher",
			cosine(query, related), cosine(query, unrelated))
	}
}

func TestLexicalEmbedder_EmptyText(t *testing.T) {
	e := NewLexicalEmbedder(64)
	if _, err := e.GenerateEmbedding(context.Background(), "   "); err == nil {
		t.Error("expected error for blank text")
	}
}
