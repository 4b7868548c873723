package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
)

// ConversationHandler serves persisted per-document conversation records
type ConversationHandler struct {
	conversations interfaces.ConversationStorage
	logger        arbor.ILogger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations interfaces.ConversationStorage, logger arbor.ILogger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		logger:        logger,
	}
}

// GetHandler handles GET /api/conversations/{doc_id} requests
func (h *ConversationHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	docID := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	if docID == "" || strings.Contains(docID, "/") {
		WriteError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	conv, err := h.conversations.GetConversation(r.Context(), docID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	WriteJSON(w, http.StatusOK, conv)
}
