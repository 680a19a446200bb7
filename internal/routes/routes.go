package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/handlers"
	"github.com/arjunvn/melodia-backend/internal/httpx"
)

// SetupRoutes mounts the API. requireAuth is the bearer-token gate
// applied to every protected route.
func SetupRoutes(
	r chi.Router,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	musicHandler *handlers.MusicHandler,
	requireAuth func(http.Handler) http.Handler,
) {
	// Unmatched routes and wrong methods still get the structured error
	// body instead of chi's bare defaults.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.RespondError(w, http.StatusNotFound,
			string(apperr.KindNotFound), "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.RespondError(w, http.StatusMethodNotAllowed,
			string(apperr.KindInvalidMethod), "Method not allowed")
	})

	// Public auth routes
	r.Post("/api/auth/register", httpx.Handle(authHandler.Register))
	r.Post("/api/auth/login", httpx.Handle(authHandler.Login))

	// Public music proxy routes
	r.Get("/api/music/search", httpx.Handle(musicHandler.Search))
	r.Get("/api/music/artist/{id}/latest", httpx.Handle(musicHandler.ArtistLatest))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/api/auth/logout", httpx.Handle(authHandler.Logout))
		r.Get("/api/profile", httpx.Handle(profileHandler.Get))
		r.Put("/api/profile", httpx.Handle(profileHandler.Update))
		r.Get("/api/music/saved", httpx.Handle(musicHandler.SavedList))
		r.Post("/api/music/saved", httpx.Handle(musicHandler.SavedCreate))
	})
}
