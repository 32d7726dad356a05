package resilience

import (
	"context"
	"sync"
	"time"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

// CircuitBreakerConfig configures a breaker. IsFailure decides whether an error
// counts toward opening the circuit; nil counts every error.
type CircuitBreakerConfig struct {
	Name       string
	Threshold  int
	Timeout    time.Duration
	ResetAfter time.Duration
	IsFailure  func(error) bool
	Logger     *logger.Logger
}

// CircuitBreaker opens after Threshold consecutive failures and rejects calls
// with ErrCircuitOpen until ResetAfter has passed since the last failure.
type CircuitBreaker struct {
	cfg         CircuitBreakerConfig
	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	now         func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 1
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.isOpenLocked()
}

func (cb *CircuitBreaker) isOpenLocked() bool {
	if cb.failures < cb.cfg.Threshold {
		return false
	}
	if cb.now().Sub(cb.lastFailure) > cb.cfg.ResetAfter {
		cb.failures = 0
		cb.setState(0)
		return false
	}
	return true
}

func (cb *CircuitBreaker) setState(state float64) {
	if cb.cfg.Name != "" {
		metrics.CircuitBreakerState.WithLabelValues(cb.cfg.Name).Set(state)
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil || (cb.cfg.IsFailure != nil && !cb.cfg.IsFailure(err)) {
		if cb.failures > 0 {
			cb.failures = 0
			cb.setState(0)
		}
		return
	}

	cb.failures++
	cb.lastFailure = cb.now()
	if cb.cfg.Name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.cfg.Name).Inc()
	}
	if cb.failures == cb.cfg.Threshold {
		cb.setState(1)
		if cb.cfg.Logger != nil {
			cb.cfg.Logger.Warnf("circuit breaker [%s]: opened after %d failures", cb.cfg.Name, cb.failures)
		}
	}
}

func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.IsOpen() {
		if cb.cfg.Name != "" {
			metrics.CircuitBreakerRejections.WithLabelValues(cb.cfg.Name).Inc()
		}
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.cfg.Timeout)
		defer cancel()
	}

	err := fn(callCtx)
	cb.record(err)
	return err
}
