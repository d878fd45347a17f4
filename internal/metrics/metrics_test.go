package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CalculationSucceeded()
	m.CalculationSucceeded()
	m.CalculationRejected()
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.ObserveRequest("/api/schedule", http.StatusOK, 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/schedule", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.CalculationSucceeded()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `amortize_calculations_total{outcome="ok"} 1`),
		"unexpected exposition:\n%s", rr.Body.String())
}

func TestSeparateInstancesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
