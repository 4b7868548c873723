package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/common"
	"github.com/explicare/explicare/internal/interfaces"
)

// NoReadableText is returned when a source yields no usable text at all.
// It is a sentinel result, not an error: downstream stages treat it as text.
const NoReadableText = "No readable text found."

// Fixed image enhancement applied before OCR. The factors mirror a 1.6x
// contrast and 1.8x sharpness boost.
const (
	contrastFactor  = 1.6
	sharpnessFactor = 1.8
)

var supportedExtensions = map[string]bool{
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"bmp":  true,
	"tiff": true,
	"gif":  true,
}

// Service extracts plain text from PDFs and images, caching results by
// fingerprint. Failures are absorbed per-unit (per page, or whole image) and
// converted into descriptive text so callers always receive text.
type Service struct {
	cache   *Cache
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.ExtractService = (*Service)(nil)

// NewService creates the extraction service with a write-through cache.
func NewService(cacheDir string, logger arbor.ILogger) (*Service, error) {
	cache, err := NewCache(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction cache: %w", err)
	}

	tempDir := filepath.Join(os.TempDir(), "explicare-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Service{
		cache:   cache,
		logger:  logger,
		tempDir: tempDir,
	}, nil
}

// Supported reports whether the (lowercased, dot-less) extension is handled.
func (s *Service) Supported(extension string) bool {
	return supportedExtensions[strings.ToLower(extension)]
}

// FromPDF extracts per-page text. Pages that fail extraction are skipped with
// a warning; non-empty pages are joined with page-boundary markers. A PDF
// with no readable text yields the NoReadableText sentinel.
func (s *Service) FromPDF(ctx context.Context, path string) interfaces.ExtractResult {
	fid := common.Fingerprint(path)
	if cached, ok := s.cache.Get(fid); ok {
		return interfaces.ExtractResult{Text: cached, Cached: true}
	}

	text := s.extractPDFText(path)

	if err := s.cache.Put(fid, text); err != nil {
		s.logger.Warn().Err(err).Str("fid", fid).Msg("Failed to write extraction cache")
	}
	return interfaces.ExtractResult{Text: text}
}

func (s *Service) extractPDFText(path string) string {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to read PDF")
		return fmt.Sprintf("Error reading PDF: %v", err)
	}
	pageCount := pdfCtx.PageCount

	pageTexts, err := s.extractPageContents(path, pageCount)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("PDF content extraction failed")
		return NoReadableText
	}

	return joinPages(pageTexts, pageCount)
}

// joinPages cleans per-page text and joins the non-empty pages with
// page-boundary markers, in page order. All-empty input yields the sentinel.
func joinPages(pageTexts map[int]string, pageCount int) string {
	var parts []string
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		txt := CleanText(pageTexts[pageNum])
		if txt == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("\n--- Page %d ---\n%s", pageNum, txt))
	}

	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return NoReadableText
	}
	return text
}

// extractPageContents runs pdfcpu content extraction into a scratch directory
// and maps the per-page output files back to page numbers.
func (s *Service) extractPageContents(path string, pageCount int) (map[int]string, error) {
	outDir, err := os.MkdirTemp(s.tempDir, "pages_")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("content extraction failed: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	pageTexts := make(map[int]string, pageCount)
	next := 1
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("Skipping unreadable page content")
			continue
		}

		var pageNum int
		if _, err := fmt.Sscanf(name, "page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(name, "Content_page_%d", &pageNum); err != nil {
				// Unrecognized naming: assign pages in sorted order.
				pageNum = next
			}
		}
		pageTexts[pageNum] = string(content)
		if pageNum >= next {
			next = pageNum + 1
		}
	}
	return pageTexts, nil
}

// FromImage preprocesses the image (grayscale, fixed contrast and sharpness
// enhancement) and runs Tesseract OCR over it. Whole-image failures degrade
// to descriptive text.
func (s *Service) FromImage(ctx context.Context, path string, lang string) interfaces.ExtractResult {
	fid := common.Fingerprint(path)
	if cached, ok := s.cache.Get(fid); ok {
		return interfaces.ExtractResult{Text: cached, Cached: true}
	}

	text := s.extractImageText(path, lang)

	if err := s.cache.Put(fid, text); err != nil {
		s.logger.Warn().Err(err).Str("fid", fid).Msg("Failed to write extraction cache")
	}
	return interfaces.ExtractResult{Text: text}
}

func (s *Service) extractImageText(path string, lang string) string {
	if lang == "" {
		lang = "eng"
	}

	img, err := imaging.Open(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to open image")
		return fmt.Sprintf("Error reading image: %v", err)
	}

	img = imaging.Grayscale(img)
	img = imaging.AdjustContrast(img, (contrastFactor-1)*100)
	img = imaging.Sharpen(img, sharpnessFactor-1)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to encode preprocessed image")
		return fmt.Sprintf("Error reading image: %v", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		s.logger.Warn().Err(err).Str("lang", lang).Msg("Failed to set OCR language, using default")
	}
	// PSM 6: assume a single uniform block of text.
	client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("OCR rejected image")
		return fmt.Sprintf("Error reading image: %v", err)
	}

	raw, err := client.Text()
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("OCR failed")
		return fmt.Sprintf("Error reading image: %v", err)
	}

	text := CleanText(raw)
	if text == "" {
		return NoReadableText
	}
	return text
}
