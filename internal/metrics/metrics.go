package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	LoginsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_logins_started_total",
			Help: "Total number of redirects to the identity provider",
		},
	)

	LoginsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_logins_completed_total",
			Help: "Total number of handled login callbacks by result",
		},
		[]string{"result"},
	)

	Logouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_logouts_total",
			Help: "Total number of logouts",
		},
	)

	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_render_failures_total",
			Help: "Total number of error boundaries that tripped",
		},
		[]string{"component", "panic"},
	)
)
