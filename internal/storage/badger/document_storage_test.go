package badger

import (
	"context"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/explicare/explicare/internal/models"
)

func openTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	options := badgerhold.DefaultOptions
	options.Dir = t.TempDir()
	options.ValueDir = options.Dir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatalf("failed to open badgerhold: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store}
}

func TestDocumentPersistence(t *testing.T) {
	db := openTestDB(t)
	logger := arbor.NewLogger()
	storage := NewDocumentStorage(db, logger)

	ctx := context.Background()

	doc := &models.Document{
		ID:             "fid-abc123",
		UserID:         "usr_1",
		Filename:       "lease.pdf",
		Extension:      "pdf",
		SizeBytes:      2048,
		ExtractedChars: 1500,
		Report: &models.AnalysisReport{
			Summary: []string{"A twelve month lease."},
			Meta:    map[string]any{"naive_risk_score": 22},
		},
		CreatedAt: time.Now(),
	}
	if err := storage.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("failed to save document: %v", err)
	}

	got, err := storage.GetDocument(ctx, "fid-abc123")
	if err != nil {
		t.Fatalf("failed to load document: %v", err)
	}
	if got.Filename != "lease.pdf" || got.UserID != "usr_1" {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.Report == nil || len(got.Report.Summary) != 1 {
		t.Errorf("report not round-tripped: %+v", got.Report)
	}

	// Overwriting the same ID updates in place
	doc.Filename = "lease-v2.pdf"
	if err := storage.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("failed to update document: %v", err)
	}
	got, err = storage.GetDocument(ctx, "fid-abc123")
	if err != nil {
		t.Fatalf("failed to reload document: %v", err)
	}
	if got.Filename != "lease-v2.pdf" {
		t.Errorf("update not applied: %s", got.Filename)
	}
}

func TestListDocumentsByUser(t *testing.T) {
	db := openTestDB(t)
	storage := NewDocumentStorage(db, arbor.NewLogger())

	ctx := context.Background()

	for _, d := range []*models.Document{
		{ID: "fid-1", UserID: "usr_1", Filename: "a.pdf"},
		{ID: "fid-2", UserID: "usr_1", Filename: "b.pdf"},
		{ID: "fid-3", UserID: "usr_2", Filename: "c.pdf"},
	} {
		if err := storage.SaveDocument(ctx, d); err != nil {
			t.Fatalf("failed to save %s: %v", d.ID, err)
		}
	}

	docs, err := storage.ListDocumentsByUser(ctx, "usr_1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 documents for usr_1, got %d", len(docs))
	}

	docs, err = storage.ListDocumentsByUser(ctx, "usr_missing")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	db := openTestDB(t)
	storage := NewDocumentStorage(db, arbor.NewLogger())

	if _, err := storage.GetDocument(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error for a missing document")
	}
}
