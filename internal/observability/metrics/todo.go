package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TaskOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_task_operations_total",
			Help: "Total number of task operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	TaskEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktrack_task_events_published_total",
			Help: "Total number of task events delivered to live subscribers",
		},
		[]string{"type"},
	)

	TaskEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasktrack_task_events_dropped_total",
			Help: "Total number of task events dropped for slow subscribers",
		},
	)

	WebSocketConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tasktrack_websocket_connections_active",
			Help: "Number of active task feed connections",
		},
	)
)
