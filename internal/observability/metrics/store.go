package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DBPoolConnections is sampled from pgxpool; state is acquired, idle, total or max.
	DBPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tasktrack_db_pool_connections",
			Help: "Postgres pool connections by state",
		},
		[]string{"state"},
	)

	StoreQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tasktrack_store_query_duration_seconds",
			Help:    "Duration of credential and task store calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "table"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_store_query_errors_total",
			Help: "Store calls that failed for reasons other than an empty result",
		},
		[]string{"operation", "table", "error_type"},
	)

	StoreRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_store_retries_total",
			Help: "Store calls retried after a transient failure, by final outcome",
		},
		[]string{"outcome"},
	)
)
