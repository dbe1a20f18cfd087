package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"secure-auth-app/internal/metrics"
	"secure-auth-app/internal/middlewares"
	"testing"

	"github.com/go-chi/chi/v5"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middlewares.MetricsMiddleware)
	r.Get("/metrics-test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/metrics-test-implicit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	created := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/{id}", "201")
	implicit := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test-implicit", "200")
	beforeCreated := promtestutil.ToFloat64(created)
	beforeImplicit := promtestutil.ToFloat64(implicit)

	for _, path := range []string{"/metrics-test/1", "/metrics-test/2", "/metrics-test-implicit"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, beforeCreated+2, promtestutil.ToFloat64(created))
	assert.Equal(t, beforeImplicit+1, promtestutil.ToFloat64(implicit))
}
