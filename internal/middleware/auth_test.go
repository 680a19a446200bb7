package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/models"
)

type fakeResolver struct {
	users map[string]models.User
}

func (f *fakeResolver) Authenticate(ctx context.Context, token string) (models.User, error) {
	user, ok := f.users[token]
	if !ok {
		return models.User{}, apperr.Unauthenticated("Invalid or missing token")
	}
	return user, nil
}

func TestRequireAuth(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "a@x.com", IsActive: true}
	resolver := &fakeResolver{users: map[string]models.User{"T1": user}}

	var seen models.User
	var seenOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, seenOK = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(resolver)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer T1", wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer T1", wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic T1", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "bare token without scheme", header: "T1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen, seenOK = models.User{}, false

			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.True(t, seenOK)
				assert.Equal(t, user.ID, seen.ID)
			} else {
				assert.False(t, seenOK)
				assert.Contains(t, rec.Body.String(), "unauthenticated")
			}
		})
	}
}

func TestUserFrom_Empty(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)
}
