package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tasktrack/internal/common/constants"
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

// StartPoolMetrics samples pool connection counts every interval until ctx is done.
func StartPoolMetrics(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DBPoolMetricsInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		samplePool(pool)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				samplePool(pool)
			}
		}
	}()
}

func samplePool(pool *pgxpool.Pool) {
	stats := pool.Stat()
	for state, n := range map[string]int32{
		"acquired": stats.AcquiredConns(),
		"idle":     stats.IdleConns(),
		"total":    stats.TotalConns(),
		"max":      stats.MaxConns(),
	} {
		metrics.DBPoolConnections.WithLabelValues(state).Set(float64(n))
	}
}
