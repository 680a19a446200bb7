package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/httpx"
	"github.com/arjunvn/melodia-backend/internal/middleware"
	"github.com/arjunvn/melodia-backend/internal/models"
)

// ProfileService is the surface ProfileHandler needs from the profile
// service.
type ProfileService interface {
	Get(ctx context.Context, user models.User) (models.ProfileView, error)
	Update(ctx context.Context, user models.User, patch models.ProfilePatch) error
}

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		return apperr.Unauthenticated("Authentication required")
	}

	view, err := h.profiles.Get(r.Context(), user)
	if err != nil {
		return err
	}

	httpx.RespondJSON(w, http.StatusOK, view)
	return nil
}

// Update handles PUT /api/profile. Only fields present in the body are
// changed; absent fields keep their current values.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		return apperr.Unauthenticated("Authentication required")
	}

	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return apperr.InvalidInput("Invalid request body")
	}

	if err := h.profiles.Update(r.Context(), user, patch); err != nil {
		return err
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
	})
	return nil
}
