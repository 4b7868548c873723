package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/services/analysis"
	"github.com/explicare/explicare/internal/services/documents"
)

// AnalysisHandler serves stored analysis reports and their PDF exports
type AnalysisHandler struct {
	documentService *documents.Service
	exporter        *analysis.Exporter
	logger          arbor.ILogger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(documentService *documents.Service, exporter *analysis.Exporter, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		documentService: documentService,
		exporter:        exporter,
		logger:          logger,
	}
}

// ReportHandler handles GET /api/analysis/{doc_id} requests
func (h *AnalysisHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	docID := strings.TrimPrefix(r.URL.Path, "/api/analysis/")
	if docID == "" || strings.Contains(docID, "/") {
		WriteError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	report, err := h.documentService.Report(r.Context(), docID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, "Document not found")
			return
		}
		h.logger.Error().Err(err).Str("doc_id", docID).Msg("Failed to load analysis report")
		WriteError(w, http.StatusInternalServerError, "Failed to load analysis report")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"doc_id": docID,
		"report": report,
	})
}

// ExportHandler handles GET /api/analysis/{doc_id}/export requests and
// returns the report rendered as a PDF attachment.
func (h *AnalysisHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	docID := strings.TrimPrefix(r.URL.Path, "/api/analysis/")
	docID = strings.TrimSuffix(docID, "/export")
	if docID == "" || strings.Contains(docID, "/") {
		WriteError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	doc, err := h.documentService.Get(r.Context(), docID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Document not found")
		return
	}

	report, err := h.documentService.Report(r.Context(), docID)
	if err != nil {
		h.logger.Error().Err(err).Str("doc_id", docID).Msg("Failed to load analysis report")
		WriteError(w, http.StatusInternalServerError, "Failed to load analysis report")
		return
	}

	pdfBytes, err := h.exporter.ExportPDF(report, doc.Filename)
	if err != nil {
		h.logger.Error().Err(err).Str("doc_id", docID).Msg("Failed to render report PDF")
		WriteError(w, http.StatusInternalServerError, "Failed to render report PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "analysis_"+docID+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
