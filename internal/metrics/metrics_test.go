package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveUpstream(t *testing.T) {
	m := New()
	m.ObserveUpstream("rawg", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveUpstream("rawg", OutcomeSuccess, 30*time.Millisecond)
	m.ObserveUpstream("rawg", OutcomeError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("rawg", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("rawg", OutcomeError)))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/media/{id}", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/media/{id}", "404")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.ObserveUpstream("x", OutcomeSuccess, time.Millisecond)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveUpstream("googlebooks", OutcomeSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `upstream_requests_total{outcome="success",provider="googlebooks"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
