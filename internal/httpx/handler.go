package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/arjunvn/melodia-backend/internal/apperr"
)

// HandlerFunc is a handler that returns an error instead of writing
// error responses itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput, apperr.KindDuplicateIdentifier:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials, apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidMethod:
		return http.StatusMethodNotAllowed
	case apperr.KindUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Handle adapts a HandlerFunc to http.HandlerFunc. A returned error is
// mapped to a status code through its kind and written as a structured
// body; the cause, when present, is logged but never sent to the client.
func Handle(handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			appErr = apperr.Internal("Internal server error", err)
		}

		status := StatusFor(appErr.Kind)
		level := slog.LevelWarn
		if status >= 500 {
			level = slog.LevelError
		}

		attrs := []any{
			"kind", string(appErr.Kind),
			"status", status,
			"path", r.URL.Path,
			"method", r.Method,
		}
		if cause := errors.Unwrap(appErr); cause != nil {
			attrs = append(attrs, "cause", cause.Error())
		}
		slog.Log(r.Context(), level, "request failed", attrs...)

		RespondError(w, status, string(appErr.Kind), appErr.Message)
	}
}
