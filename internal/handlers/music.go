package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/httpx"
	"github.com/arjunvn/melodia-backend/internal/middleware"
	"github.com/arjunvn/melodia-backend/internal/models"
)

// TrackSearcher is a music source that can search by term.
type TrackSearcher interface {
	Search(ctx context.Context, term string) ([]models.Track, error)
}

// ArtistBrowser can fetch an artist's latest releases.
type ArtistBrowser interface {
	ArtistLatest(ctx context.Context, artistID string) ([]models.Track, error)
}

// TrackStore persists a user's saved tracks.
type TrackStore interface {
	Save(ctx context.Context, userID uuid.UUID, track models.Track) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Track, error)
}

// TrackListResponse wraps every track-list endpoint's body.
type TrackListResponse struct {
	Success bool           `json:"success"`
	Results []models.Track `json:"results"`
}

type MusicHandler struct {
	shazam    TrackSearcher
	artists   ArtistBrowser
	freesound TrackSearcher
	tracks    TrackStore
}

// NewMusicHandler wires the music endpoints. shazam/artists/freesound
// may be nil when the corresponding API key is not configured; the
// affected endpoints then report an upstream failure instead of
// crashing.
func NewMusicHandler(shazam TrackSearcher, artists ArtistBrowser, freesound TrackSearcher, tracks TrackStore) *MusicHandler {
	return &MusicHandler{shazam: shazam, artists: artists, freesound: freesound, tracks: tracks}
}

// Search handles GET /api/music/search?term=...&source=...
func (h *MusicHandler) Search(w http.ResponseWriter, r *http.Request) error {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		return apperr.InvalidInput("Query parameter 'term' is required")
	}

	var source TrackSearcher
	switch r.URL.Query().Get("source") {
	case "", "shazam":
		source = h.shazam
	case "freesound":
		source = h.freesound
	default:
		return apperr.InvalidInput("Unknown music source")
	}
	if source == nil {
		return apperr.Upstream("Music search is not configured", nil)
	}

	results, err := source.Search(r.Context(), term)
	if err != nil {
		return err
	}

	httpx.RespondJSON(w, http.StatusOK, TrackListResponse{Success: true, Results: results})
	return nil
}

// ArtistLatest handles GET /api/music/artist/{id}/latest
func (h *MusicHandler) ArtistLatest(w http.ResponseWriter, r *http.Request) error {
	artistID := chi.URLParam(r, "id")
	if artistID == "" {
		return apperr.InvalidInput("Artist id is required")
	}
	if h.artists == nil {
		return apperr.Upstream("Music search is not configured", nil)
	}

	results, err := h.artists.ArtistLatest(r.Context(), artistID)
	if err != nil {
		return err
	}

	httpx.RespondJSON(w, http.StatusOK, TrackListResponse{Success: true, Results: results})
	return nil
}

// SavedList handles GET /api/music/saved
func (h *MusicHandler) SavedList(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		return apperr.Unauthenticated("Authentication required")
	}

	results, err := h.tracks.ListByUser(r.Context(), user.ID)
	if err != nil {
		return apperr.Internal("Failed to load saved tracks", err)
	}
	if results == nil {
		results = []models.Track{}
	}

	httpx.RespondJSON(w, http.StatusOK, TrackListResponse{Success: true, Results: results})
	return nil
}

// SavedCreate handles POST /api/music/saved
func (h *MusicHandler) SavedCreate(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		return apperr.Unauthenticated("Authentication required")
	}

	var track models.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		return apperr.InvalidInput("Invalid request body")
	}
	if strings.TrimSpace(track.Title) == "" || strings.TrimSpace(track.Artist) == "" {
		return apperr.InvalidInput("Title and artist are required")
	}

	if err := h.tracks.Save(r.Context(), user.ID, track); err != nil {
		return apperr.Internal("Failed to save track", err)
	}

	httpx.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Track saved",
	})
	return nil
}
