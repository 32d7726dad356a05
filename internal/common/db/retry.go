package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"

	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
}

func (c RetryConfig) next(delay time.Duration) time.Duration {
	delay = time.Duration(float64(delay) * c.Multiplier)
	if delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// retryableSQLStates are connection exceptions (class 08), serialization
// failures, deadlocks and lock-not-available.
var retryableSQLStates = map[string]struct{}{
	"08000": {}, "08001": {}, "08003": {}, "08004": {}, "08006": {}, "08007": {}, "08P01": {},
	"40001": {}, "40P01": {},
	"55P03": {},
}

// IsRetryableError reports transient Postgres failures. Cancellation and
// deadline errors are never retried.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryableSQLStates[pgErr.Code]
		return ok
	}
	return false
}

// RetryWithBackoff runs operation up to config.MaxAttempts times while
// retryable approves the error. log may be nil.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, config RetryConfig, retryable func(error) bool, operation func() error) error {
	delay := config.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 1 {
				metrics.StoreRetriesTotal.WithLabelValues("recovered").Inc()
				if log != nil {
					log.Infof("store call succeeded after %d attempts", attempt)
				}
			}
			return nil
		}

		if !retryable(err) || attempt >= config.MaxAttempts {
			if attempt > 1 {
				metrics.StoreRetriesTotal.WithLabelValues("exhausted").Inc()
			}
			return err
		}

		if log != nil {
			log.Warnf("store call failed (attempt %d/%d), retrying in %v: %v", attempt, config.MaxAttempts, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-timer.C:
		}
		delay = config.next(delay)
	}
}
