package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ckante203-dev/chat-backend/internal/service"
	"github.com/ckante203-dev/chat-backend/internal/transport/http/middleware"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, "get current user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, "list users", err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
