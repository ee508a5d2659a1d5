package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	mw := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(204) }))
	mw.ServeHTTP(rec, r)
	require.Equal(t, 204, rec.Result().StatusCode)
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/x", http.MethodGet, "No Content")), 1.0)
}

func TestInitMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})
}

func TestMatchMetricsHelpers(t *testing.T) {
	before := testutil.ToFloat64(MatchRequestsTotal.WithLabelValues(OutcomeOK))
	ObserveMatch(OutcomeOK, 2*time.Millisecond, []int{60, 44, 10})
	ObserveMatch(OutcomeInvalid, 0, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(MatchRequestsTotal.WithLabelValues(OutcomeOK)))

	ObserveAnalyze(OutcomeOK, 3)
	ObserveAnalyze(OutcomeInvalid, 0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(AnalyzeRequestsTotal.WithLabelValues(OutcomeInvalid)), 1.0)

	SetStoreSize(5)
	assert.Equal(t, 5.0, testutil.ToFloat64(CandidateStoreSize))

	okBefore := testutil.ToFloat64(MatchEventsTotal.WithLabelValues(OutcomeOK))
	ObserveEventPublish(nil)
	ObserveEventPublish(errors.New("broker down"))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(MatchEventsTotal.WithLabelValues(OutcomeOK)))

	ObserveRateLimited("match")
	assert.GreaterOrEqual(t, testutil.ToFloat64(RateLimitedTotal.WithLabelValues("match")), 1.0)
}
