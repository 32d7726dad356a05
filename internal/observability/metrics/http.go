package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tasktrack_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tasktrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

var (
	RateLimitBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_rate_limit_blocked_total",
			Help: "Requests refused by a rate limiter",
		},
		[]string{"path", "limiter"},
	)

	DomainErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_domain_errors_total",
			Help: "Error responses by category and code",
		},
		[]string{"category", "code", "status"},
	)

	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_http_errors_total",
			Help: "Error responses by status and route",
		},
		[]string{"status", "path", "method"},
	)
)

var PanicsRecovered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tasktrack_http_panics_recovered_total",
		Help: "Handler panics turned into 500 responses",
	},
	[]string{"path"},
)
