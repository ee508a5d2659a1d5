package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AnalyzeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyze_requests_total",
			Help: "Total number of job description analyses by outcome",
		},
		[]string{"outcome"},
	)
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total number of ranking requests by outcome",
		},
		[]string{"outcome"},
	)
	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_duration_seconds",
			Help:    "Time spent scoring and ranking the roster",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)
	CandidateScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "candidate_score",
			Help:    "Distribution of candidate total scores ([0,100])",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
	ExtractedSkillsHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyze_extracted_skills",
			Help:    "Number of skills extracted per job description",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)
	CandidateStoreSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "candidate_store_size",
			Help: "Number of candidates currently loaded",
		},
	)
	MatchEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_events_published_total",
			Help: "Match completed events by publish outcome",
		},
		[]string{"outcome"},
	)
	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by the distributed limiter",
		},
		[]string{"bucket"},
	)
)

var initOnce sync.Once

// InitMetrics registers every collector with the default registry. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AnalyzeRequestsTotal,
			MatchRequestsTotal,
			MatchDuration,
			CandidateScoreHistogram,
			ExtractedSkillsHistogram,
			CandidateStoreSize,
			MatchEventsTotal,
			RateLimitedTotal,
		)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveAnalyze records one analysis outcome and, on success, the skill count.
func ObserveAnalyze(outcome string, skills int) {
	AnalyzeRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		ExtractedSkillsHistogram.Observe(float64(skills))
	}
}

// ObserveMatch records one ranking run.
func ObserveMatch(outcome string, elapsed time.Duration, scores []int) {
	MatchRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	MatchDuration.Observe(elapsed.Seconds())
	for _, s := range scores {
		CandidateScoreHistogram.Observe(float64(s))
	}
}

// SetStoreSize publishes the loaded roster size.
func SetStoreSize(n int) { CandidateStoreSize.Set(float64(n)) }

// ObserveEventPublish records a match event publish attempt.
func ObserveEventPublish(err error) {
	if err != nil {
		MatchEventsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	MatchEventsTotal.WithLabelValues(OutcomeOK).Inc()
}

// ObserveRateLimited counts a rejected request for the named bucket.
func ObserveRateLimited(bucket string) { RateLimitedTotal.WithLabelValues(bucket).Inc() }

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)
