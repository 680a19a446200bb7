package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/httpx"
	"github.com/arjunvn/melodia-backend/internal/middleware"
)

// AuthService is the surface AuthHandler needs from the auth service.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// RegisterRequest is the body of POST /api/auth/register and login.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the success body of register and login.
type TokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.InvalidInput("Invalid request body")
	}

	token, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	httpx.RespondJSON(w, http.StatusCreated, TokenResponse{
		Success: true,
		Message: "Registration successful",
		Token:   token,
	})
	return nil
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.InvalidInput("Invalid request body")
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	httpx.RespondJSON(w, http.StatusOK, TokenResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
	return nil
}

// Logout handles POST /api/auth/logout. The auth gate has already
// resolved the caller.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		return apperr.Unauthenticated("Authentication required")
	}

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
