package middleware

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChain_AppliesInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler(), mk("a"), mk("b"), mk("c")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "given", seen)
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/saved-jobs", nil))

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/saved-jobs"`)
}

func TestRecovery_Returns500(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRateLimiter_AllowExhaustsBucket(t *testing.T) {
	rl := NewRateLimiter()

	assert.True(t, rl.Allow("u", 2))
	assert.True(t, rl.Allow("u", 2))
	assert.False(t, rl.Allow("u", 2))
	// keys are independent
	assert.True(t, rl.Allow("other", 2))
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter()
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("u", 1))
	require.False(t, rl.Allow("u", 1))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("u", 1))
}

func TestRateLimiter_KeyCountStaysBounded(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter()
	rl.maxKeys = 100
	rl.now = func() time.Time { return now }

	goroutines := runtime.NumGoroutine()
	for i := 0; i < 5000; i++ {
		rl.Allow(fmt.Sprintf("addr:10.0.%d.%d", i/256, i%256), 5)
		now = now.Add(time.Millisecond)
		require.LessOrEqual(t, rl.Len(), 100)
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), goroutines)
}

func TestRateLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter()
	rl.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		rl.Allow(fmt.Sprintf("user:%d", i), 5)
	}
	require.Equal(t, 50, rl.Len())

	// every bucket is full again, so the next call drops them all
	now = now.Add(2 * time.Minute)
	rl.Allow("user:new", 5)
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_EvictionKeepsActiveKeyLimited(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter()
	rl.maxKeys = 2
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("idle", 1))
	now = now.Add(time.Second)
	require.True(t, rl.Allow("busy", 1))
	now = now.Add(time.Second)
	require.False(t, rl.Allow("busy", 1))

	// a third key evicts "idle", not the exhausted "busy" bucket
	now = now.Add(time.Second)
	require.True(t, rl.Allow("new", 1))
	assert.Equal(t, 2, rl.Len())
	assert.False(t, rl.Allow("busy", 1))
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter()

	key := func(r *http.Request) string { return r.Header.Get("X-User-ID") }
	h := RateLimit(rl, 1, key, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-User-ID", "u")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestRateLimit_ZeroDisables(t *testing.T) {
	rl := NewRateLimiter()

	h := RateLimit(rl, 0, func(*http.Request) string { return "k" }, nil)(okHandler())
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	h := CORS([]string{"http://app.example"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/u/saved-jobs", nil)
	req.Header.Set("Origin", "http://app.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "http://app.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
