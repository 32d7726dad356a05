package service

import (
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

func recordSignup(result string) {
	metrics.SignupsTotal.WithLabelValues(result).Inc()
}

func recordLogin(result string) {
	metrics.LoginsTotal.WithLabelValues(result).Inc()
}
