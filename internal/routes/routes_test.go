package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/arjunvn/melodia-backend/internal/handlers"
)

func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	SetupRoutes(r,
		handlers.NewAuthHandler(nil),
		handlers.NewProfileHandler(nil),
		handlers.NewMusicHandler(nil, nil, nil, nil),
		passthrough,
	)
	return r
}

func TestRouter_NotFound_StructuredBody(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"not_found"`)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRouter_MethodNotAllowed_StructuredBody(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/auth/register", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"invalid_method"`)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
