package app_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/store/memory"
	"github.com/fairyhunter13/candidate-matcher/internal/app"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/matching"
	"github.com/fairyhunter13/candidate-matcher/internal/service/ratelimiter"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

type denyAll struct{}

func (denyAll) Allow(context.Context, string, string, int64) (bool, time.Duration, error) {
	return false, time.Second, nil
}

func newRouter(t *testing.T, cfg config.Config, limiter ratelimiter.Limiter) http.Handler {
	t.Helper()
	store, err := memory.Default()
	require.NoError(t, err)
	srv := httpserver.NewServer(cfg, usecase.NewMatchService(store, matching.DefaultRubric(), nil), nil, nil)
	return app.BuildRouter(cfg, srv, limiter)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildRouter_Routes(t *testing.T) {
	h := newRouter(t, config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 1000}, nil)
	job := `{"jobDescription":"Senior Go engineer, remote"}`

	for _, target := range []string{"/api/analyze", "/v1/analyze"} {
		rec := do(h, http.MethodPost, target, job)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"success":true`, target)
	}
	for _, target := range []string{"/api/match", "/v1/match"} {
		rec := do(h, http.MethodPost, target, job)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"candidates":[`, target)
	}

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/v1/candidates", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/v1/candidates/Emily%20Johnson", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/v1/nope", "").Code)
}

func TestBuildRouter_HeadersAndCORS(t *testing.T) {
	h := newRouter(t, config.Config{CORSAllowOrigins: "https://ui.example"}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/match", nil)
	req.Header.Set("Origin", "https://ui.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://ui.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(h, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestBuildRouter_MatchRateLimited(t *testing.T) {
	h := newRouter(t, config.Config{}, denyAll{})
	rec := do(h, http.MethodPost, "/api/match", `{"jobDescription":"Go"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Only the match bucket is limited.
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/analyze", `{"jobDescription":"Go"}`).Code)
}

func TestBuildRouter_ResponseDelay(t *testing.T) {
	h := newRouter(t, config.Config{ResponseDelay: 40 * time.Millisecond}, nil)
	start := time.Now()
	rec := do(h, http.MethodPost, "/api/analyze", `{"jobDescription":"Go"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	start = time.Now()
	do(h, http.MethodGet, "/healthz", "")
	assert.Less(t, time.Since(start), 40*time.Millisecond)
}
