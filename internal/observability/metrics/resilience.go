package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tasktrack_circuit_breaker_open",
			Help: "1 while the named breaker rejects calls, 0 otherwise",
		},
		[]string{"name"},
	)

	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_circuit_breaker_failures_total",
			Help: "Failures counted toward opening the named breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_circuit_breaker_rejections_total",
			Help: "Calls refused because the named breaker was open",
		},
		[]string{"name"},
	)
)
