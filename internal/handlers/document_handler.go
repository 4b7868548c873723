package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/services/documents"
)

// maxUploadBytes bounds multipart upload size (32 MB).
const maxUploadBytes = 32 << 20

// DocumentHandler handles document upload and listing requests
type DocumentHandler struct {
	documentService *documents.Service
	logger          arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *documents.Service, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// UploadHandler handles POST /api/documents/upload requests. The multipart
// form carries "file" and "user_id".
func (h *DocumentHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse multipart form")
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user_id field is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read uploaded file")
		WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	doc, err := h.documentService.Upload(r.Context(), userID, header.Filename, content)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported file type") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Upload failed")
		WriteError(w, http.StatusInternalServerError, "Failed to process document")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"doc_id":   doc.ID,
		"document": doc,
	})
}

// ListHandler handles GET /api/documents?user_id= requests
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	docs, err := h.documentService.List(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list documents")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}
