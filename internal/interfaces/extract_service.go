package interfaces

import (
	"context"
)

// ExtractResult carries extracted text plus cache provenance.
type ExtractResult struct {
	Text   string // Plain text, possibly a sentinel or error placeholder
	Cached bool   // True when served from the extraction cache
}

// ExtractService converts source files into plain text. Extraction failures
// are absorbed: implementations return placeholder text describing the
// failure rather than an error, so downstream stages always receive text.
// The only error cases are unsupported inputs rejected up front.
type ExtractService interface {
	// FromPDF extracts per-page text from a PDF, joining non-empty pages
	// with page-boundary markers.
	FromPDF(ctx context.Context, path string) ExtractResult

	// FromImage runs OCR over an image after grayscale/contrast/sharpness
	// preprocessing. lang is a Tesseract language code.
	FromImage(ctx context.Context, path string, lang string) ExtractResult

	// Supported reports whether the file extension (without dot) can be
	// extracted.
	Supported(extension string) bool
}
