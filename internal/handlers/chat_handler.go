package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatService interfaces.ChatService
	logger      arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService interfaces.ChatService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ChatHandler handles POST /api/chat requests
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req interfaces.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode chat request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.Query = strings.TrimSpace(req.Query)
	if req.UserID == "" {
		WriteError(w, http.StatusBadRequest, "user_id field is required")
		return
	}
	if req.Query == "" {
		WriteError(w, http.StatusBadRequest, "query field is required")
		return
	}

	h.logger.Info().
		Str("user_id", req.UserID).
		Int("query_length", len(req.Query)).
		Msg("Processing chat request")

	response, err := h.chatService.Chat(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate chat response")
		WriteError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"response":       response.Message,
		"context_chunks": response.ContextChunks,
		"model":          response.Model,
	})
}

// HealthHandler handles GET /api/chat/health requests
func (h *ChatHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if err := h.chatService.HealthCheck(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Chat service health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"healthy": false,
			"error":   err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"healthy": true,
	})
}
