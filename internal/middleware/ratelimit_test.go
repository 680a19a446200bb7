package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunvn/melodia-backend/internal/database"
)

// fakeLimiterStore is a go-redis hook backing GET/SET/INCR with an
// in-memory map, recording the context of every command.
type fakeLimiterStore struct {
	entries map[string]string
	gotCtx  []context.Context
}

func (f *fakeLimiterStore) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeLimiterStore) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeLimiterStore) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		f.gotCtx = append(f.gotCtx, ctx)
		switch strings.ToLower(cmd.Name()) {
		case "get":
			if v, ok := f.entries[cmd.Args()[1].(string)]; ok {
				cmd.(*redis.StringCmd).SetVal(v)
			} else {
				cmd.SetErr(redis.Nil)
			}
		case "set":
			f.entries[cmd.Args()[1].(string)] = fmt.Sprint(cmd.Args()[2])
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "incr":
			key := cmd.Args()[1].(string)
			n, _ := strconv.Atoi(f.entries[key])
			n++
			f.entries[key] = strconv.Itoa(n)
			cmd.(*redis.IntCmd).SetVal(int64(n))
		}
		return nil
	}
}

func installFakeLimiterStore(t *testing.T) *fakeLimiterStore {
	t.Helper()
	fake := &fakeLimiterStore{entries: map[string]string{}}
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	client.AddHook(fake)
	prev := database.RedisClient
	database.RedisClient = client
	t.Cleanup(func() { database.RedisClient = prev })
	return fake
}

type limiterCtxKey struct{}

func TestRateLimitMiddleware_UsesRequestContext(t *testing.T) {
	fake := installFakeLimiterStore(t)

	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = req.WithContext(context.WithValue(req.Context(), limiterCtxKey{}, "marker"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, fake.gotCtx)
	for _, ctx := range fake.gotCtx {
		assert.Equal(t, "marker", ctx.Value(limiterCtxKey{}))
	}
}

func TestRateLimitMiddleware_AllowsAndCounts(t *testing.T) {
	fake := installFakeLimiterStore(t)

	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strconv.Itoa(RateLimitMaxRequests), rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, strconv.Itoa(RateLimitMaxRequests-1), rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", fake.entries[RateLimitKeyPrefix+"203.0.113.9"])
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	fake := installFakeLimiterStore(t)
	fake.entries[RateLimitKeyPrefix+"203.0.113.9"] = strconv.Itoa(RateLimitMaxRequests)

	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when over the limit")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"rate_limited"`)
}
