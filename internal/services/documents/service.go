// Package documents owns the upload pipeline: persist the uploaded file,
// extract its text, fingerprint it, generate the analysis report, and
// store the document record.
package documents

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/common"
	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/models"
	"github.com/explicare/explicare/internal/services/analysis"
	"github.com/explicare/explicare/internal/services/extract"
)

// Service processes document uploads and serves stored records.
type Service struct {
	storage     interfaces.StorageManager
	extractor   interfaces.ExtractService
	analyzer    *analysis.Service
	cache       *extract.Cache
	uploadDir   string
	ocrLanguage string
	logger      arbor.ILogger
}

// NewService creates the document service. Uploaded files are written
// under uploadDir before extraction.
func NewService(storage interfaces.StorageManager, extractor interfaces.ExtractService, analyzer *analysis.Service, cache *extract.Cache, uploadDir, ocrLanguage string, logger arbor.ILogger) (*Service, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Service{
		storage:     storage,
		extractor:   extractor,
		analyzer:    analyzer,
		cache:       cache,
		uploadDir:   uploadDir,
		ocrLanguage: ocrLanguage,
		logger:      logger,
	}, nil
}

// Upload runs the full pipeline for one uploaded file and returns the
// stored document record, report included. The document ID is the file
// fingerprint, so re-uploading identical file state hits the extraction
// cache and reuses the stored report instead of regenerating it.
func (s *Service) Upload(ctx context.Context, userID, filename string, content []byte) (*models.Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !s.extractor.Supported(ext) {
		return nil, fmt.Errorf("unsupported file type %q: upload a PDF or image", ext)
	}

	path := filepath.Join(s.uploadDir, filepath.Base(filename))

	// Leave an identical on-disk file untouched: the fingerprint covers
	// file state (mtime, size), so rewriting the same bytes would defeat
	// the extraction and report caches.
	if existing, err := os.ReadFile(path); err != nil || !bytes.Equal(existing, content) {
		if err := os.WriteFile(path, content, 0644); err != nil {
			return nil, fmt.Errorf("failed to save uploaded file: %w", err)
		}
	}

	var result interfaces.ExtractResult
	if ext == "pdf" {
		result = s.extractor.FromPDF(ctx, path)
	} else {
		result = s.extractor.FromImage(ctx, path, s.ocrLanguage)
	}

	fid := common.Fingerprint(path)

	doc := &models.Document{
		ID:             fid,
		UserID:         userID,
		Filename:       filename,
		Extension:      ext,
		SizeBytes:      int64(len(content)),
		ExtractedChars: len(result.Text),
		Cached:         result.Cached,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	// An existing record for the same fingerprint already carries a
	// report; regenerating it would produce the same analysis.
	if existing, err := s.storage.DocumentStorage().GetDocument(ctx, fid); err == nil && existing != nil && existing.Report != nil {
		doc.Report = existing.Report
		doc.CreatedAt = existing.CreatedAt
		s.logger.Info().
			Str("doc_id", fid).
			Str("filename", filename).
			Msg("Reusing stored analysis report")
	} else {
		doc.Report = s.analyzer.Analyze(ctx, result.Text, map[string]any{
			"filename": filename,
			"fid":      fid,
		})
	}

	if err := s.storage.DocumentStorage().SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	s.logger.Info().
		Str("doc_id", fid).
		Str("user_id", userID).
		Str("filename", filename).
		Int("extracted_chars", doc.ExtractedChars).
		Bool("cached", doc.Cached).
		Msg("Document processed")

	return doc, nil
}

// Get returns one stored document record.
func (s *Service) Get(ctx context.Context, docID string) (*models.Document, error) {
	return s.storage.DocumentStorage().GetDocument(ctx, docID)
}

// List returns all documents owned by a user.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Document, error) {
	return s.storage.DocumentStorage().ListDocumentsByUser(ctx, userID)
}

// Report returns the stored analysis report for a document, regenerating
// it from the cached extracted text when the record has none.
func (s *Service) Report(ctx context.Context, docID string) (*models.AnalysisReport, error) {
	doc, err := s.storage.DocumentStorage().GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Report != nil {
		return doc.Report, nil
	}

	text, ok := s.cache.Get(docID)
	if !ok {
		return nil, fmt.Errorf("no cached text for document %s: re-upload the file", docID)
	}

	s.logger.Info().Str("doc_id", docID).Msg("Regenerating missing analysis report")

	doc.Report = s.analyzer.Analyze(ctx, text, map[string]any{
		"filename": doc.Filename,
		"fid":      doc.ID,
	})
	doc.UpdatedAt = time.Now()

	if err := s.storage.DocumentStorage().SaveDocument(ctx, doc); err != nil {
		s.logger.Warn().Err(err).Str("doc_id", docID).Msg("Failed to persist regenerated report")
	}

	return doc.Report, nil
}
