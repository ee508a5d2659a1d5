package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/service/ratelimiter"
)

// MatchBucket names the distributed limiter bucket for ranking requests.
const MatchBucket = "match"

// ParseOrigins splits a comma-separated origin list, trimming spaces.
// Empty input yields ["*"].
func ParseOrigins(s string) []string {
	out := make([]string, 0, 2)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter wires middleware and routes. limiter may be nil.
func BuildRouter(cfg config.Config, srv *httpserver.Server, limiter ratelimiter.Limiter) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(cfg.HTTPWriteTimeout))
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 120
	}
	matchLimit := httpserver.RateLimit(limiter, MatchBucket)

	mount := func(api chi.Router) {
		api.Use(httprate.LimitByIP(perMin, time.Minute))
		api.Use(httpserver.ResponseDelay(cfg.ResponseDelay))
		api.Post("/analyze", srv.AnalyzeHandler())
		api.With(matchLimit).Post("/match", srv.MatchHandler())
	}
	// Browser front ends call /api/*; /v1/* is the versioned surface.
	r.Route("/api", mount)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(g chi.Router) {
			mount(g)
			g.Post("/analyze/upload", srv.AnalyzeUploadHandler())
		})
		v1.Get("/candidates", srv.CandidatesHandler())
		v1.Get("/candidates/{name}", srv.CandidateHandler())
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", srv.ReadyzHandler())
	r.Handle("/metrics", promhttp.Handler())

	return httpserver.SecurityHeaders(r)
}
