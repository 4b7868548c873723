package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Accounts
	mux.HandleFunc("/api/auth/register", s.app.AuthHandler.RegisterHandler) // POST - create account
	mux.HandleFunc("/api/auth/login", s.app.AuthHandler.LoginHandler)       // POST - verify credentials

	// API routes - Documents
	mux.HandleFunc("/api/documents/upload", s.app.DocumentHandler.UploadHandler) // POST - multipart upload
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.ListHandler)          // GET - list by user

	// API routes - Analysis reports
	mux.HandleFunc("/api/analysis/", s.handleAnalysisRoutes) // GET /{doc_id} and /{doc_id}/export

	// API routes - Chat (RAG-enabled chat)
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)
	mux.HandleFunc("/api/chat/health", s.app.ChatHandler.HealthHandler)

	// API routes - Conversations
	mux.HandleFunc("/api/conversations/", s.app.ConversationHandler.GetHandler) // GET /{doc_id}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleAnalysisRoutes routes analysis requests to the appropriate handler
func (s *Server) handleAnalysisRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/export") {
		s.app.AnalysisHandler.ExportHandler(w, r)
		return
	}
	s.app.AnalysisHandler.ReportHandler(w, r)
}
