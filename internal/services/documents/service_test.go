package documents

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/models"
	"github.com/explicare/explicare/internal/services/analysis"
	"github.com/explicare/explicare/internal/services/extract"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

// mockLLMService returns a canned chat completion
type mockLLMService struct {
	response string
	err      error
}

func (m *mockLLMService) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("not supported")
}

func (m *mockLLMService) Chat(_ context.Context, _ []interfaces.Message) (string, error) {
	return m.response, m.err
}

func (m *mockLLMService) HealthCheck(_ context.Context) error { return nil }
func (m *mockLLMService) GetMode() interfaces.LLMMode { return interfaces.LLMModeCloud }
func (m *mockLLMService) ModelName() string { return "mock-model" }
func (m *mockLLMService) Close() error { return nil }

// mockExtractor returns fixed text for any supported file
type mockExtractor struct {
	text string
}

func (m *mockExtractor) FromPDF(_ context.Context, _ string) interfaces.ExtractResult {
	return interfaces.ExtractResult{Text: m.text}
}

func (m *mockExtractor) FromImage(_ context.Context, _ string, _ string) interfaces.ExtractResult {
	return interfaces.ExtractResult{Text: m.text}
}

func (m *mockExtractor) Supported(ext string) bool {
	return ext == "pdf" || ext == "png" || ext == "jpg"
}

// memStorage implements interfaces.StorageManager in memory for testing
type memStorage struct {
	mu   sync.Mutex
	docs map[string]*models.Document
}

func newMemStorage() *memStorage {
	return &memStorage{docs: make(map[string]*models.Document)}
}

func (s *memStorage) UserStorage() interfaces.UserStorage { return nil }
func (s *memStorage) DocumentStorage() interfaces.DocumentStorage { return s }
func (s *memStorage) ConversationStorage() interfaces.ConversationStorage { return nil }
func (s *memStorage) RunGC() error { return nil }
func (s *memStorage) Close() error { return nil }

func (s *memStorage) SaveDocument(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

func (s *memStorage) GetDocument(_ context.Context, id string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("document not found: %s", id)
}

func (s *memStorage) ListDocumentsByUser(_ context.Context, userID string) ([]*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []*models.Document
	for _, d := range s.docs {
		if d.UserID == userID {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

const testReportJSON = `{
	"summary": ["A twelve month lease."],
	"key_terms": ["Term: 12 months"],
	"obligations": {"you": ["Pay rent monthly"], "other_party": []},
	"costs_and_payments": ["Rent: $1200/month"],
	"risks": [],
	"red_flags": [],
	"questions_to_ask": [],
	"negotiation_suggestions": [],
	"decision_assist": {"pros": [], "cons": [], "overall_take": "Standard lease."}
}`

func newTestService(t *testing.T, storage *memStorage, extractedText string) *Service {
	t.Helper()

	scanner, err := analysis.NewClauseScanner()
	if err != nil {
		t.Fatalf("failed to create clause scanner: %v", err)
	}
	analyzer := analysis.NewService(&mockLLMService{response: testReportJSON}, scanner, 0, createTestLogger())

	cacheDir := t.TempDir()
	cache, err := extract.NewCache(cacheDir)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	svc, err := NewService(storage, &mockExtractor{text: extractedText}, analyzer, cache, t.TempDir(), "eng", createTestLogger())
	if err != nil {
		t.Fatalf("failed to create document service: %v", err)
	}
	return svc
}

func TestUpload_GeneratesReport(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(t, storage, "This agreement runs for twelve months.")

	doc, err := svc.Upload(context.Background(), "usr_1", "lease.pdf", []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if doc.ID == "" {
		t.Error("expected a fingerprint document ID")
	}
	if doc.Report == nil {
		t.Fatal("expected an analysis report")
	}
	if len(doc.Report.Summary) == 0 || doc.Report.Summary[0] != "A twelve month lease." {
		t.Errorf("unexpected summary: %v", doc.Report.Summary)
	}
	if doc.Extension != "pdf" {
		t.Errorf("expected extension pdf, got %q", doc.Extension)
	}

	stored, err := storage.GetDocument(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("document not persisted: %v", err)
	}
	if stored.Report == nil {
		t.Error("persisted document missing report")
	}
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	svc := newTestService(t, newMemStorage(), "text")

	_, err := svc.Upload(context.Background(), "usr_1", "notes.docx", []byte("data"))
	if err == nil {
		t.Fatal("expected an error for unsupported extension")
	}
}

func TestUpload_ReusesStoredReport(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(t, storage, "Same content both times.")

	first, err := svc.Upload(context.Background(), "usr_1", "lease.pdf", []byte("identical bytes"))
	if err != nil {
		t.Fatalf("first upload failed: %v", err)
	}

	second, err := svc.Upload(context.Background(), "usr_1", "lease.pdf", []byte("identical bytes"))
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("identical uploads produced different IDs: %s vs %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("re-upload should keep the original CreatedAt")
	}
	if second.Report == nil {
		t.Fatal("re-upload lost the report")
	}
}

func TestReport_StoredReportReturned(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(t, storage, "Document text.")

	doc, err := svc.Upload(context.Background(), "usr_1", "lease.pdf", []byte("bytes"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	report, err := svc.Report(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("report lookup failed: %v", err)
	}
	if len(report.Summary) == 0 {
		t.Error("expected stored report content")
	}
}

func TestReport_UnknownDocument(t *testing.T) {
	svc := newTestService(t, newMemStorage(), "text")

	if _, err := svc.Report(context.Background(), "missing-id"); err == nil {
		t.Fatal("expected an error for unknown document")
	}
}
