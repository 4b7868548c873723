package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/crypto/bcrypt"

	"github.com/explicare/explicare/internal/common"
	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/models"
)

// AuthHandler handles account registration and login requests
type AuthHandler struct {
	users  interfaces.UserStorage
	logger arbor.ILogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users interfaces.UserStorage, logger arbor.ILogger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles POST /api/auth/register requests
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse register request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	ctx := context.Background()

	if _, err := h.users.GetUserByEmail(ctx, req.Email); err == nil {
		WriteError(w, http.StatusConflict, "An account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := &models.User{
		ID:           common.NewUserID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := h.users.SaveUser(ctx, user); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.logger.Info().Str("user_id", user.ID).Msg("User registered")

	WriteJSON(w, http.StatusCreated, map[string]string{
		"status":  "success",
		"user_id": user.ID,
	})
}

// LoginHandler handles POST /api/auth/login requests
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse login request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.GetUserByEmail(context.Background(), req.Email)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.logger.Info().Str("user_id", user.ID).Msg("User logged in")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"user":   user,
	})
}
