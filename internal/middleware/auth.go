package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/httpx"
	"github.com/arjunvn/melodia-backend/internal/models"
)

type contextKey int

const userContextKey contextKey = 0

// TokenResolver resolves a bearer token to its user.
type TokenResolver interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// RequireAuth is the gate in front of every protected route. It
// resolves the bearer token once and stores the user in the request
// context; handlers read it back with UserFrom.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				httpx.RespondError(w, http.StatusUnauthorized,
					string(apperr.KindUnauthenticated), "Missing bearer token")
				return
			}

			user, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				kind := apperr.KindOf(err)
				httpx.RespondError(w, httpx.StatusFor(kind), string(kind), err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

// UserFrom returns the authenticated user stored by RequireAuth.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// WithUser is used by tests to seed the context the way RequireAuth
// does in production.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
