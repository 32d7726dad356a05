package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgconn"

	"github.com/AlibekovAA/tasktrack/internal/common/constants"
	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/common/resilience"
)

// Guard runs store calls through a circuit breaker. Reads are retried on any
// transient error; writes only when the statement never reached the server,
// so a non-idempotent update is applied at most once. A nil Guard runs calls directly.
type Guard struct {
	breaker *resilience.CircuitBreaker
	retry   RetryConfig
	log     *logger.Logger
}

func NewGuard(breaker *resilience.CircuitBreaker, retry RetryConfig, log *logger.Logger) *Guard {
	return &Guard{breaker: breaker, retry: retry, log: log}
}

// NewDefaultGuard builds the guard used in front of the Postgres stores.
// Empty results and domain errors do not count as breaker failures.
func NewDefaultGuard(name string, log *logger.Logger) *Guard {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:       name,
		Threshold:  constants.DBCircuitBreakerThreshold,
		Timeout:    constants.DBCircuitBreakerTimeout,
		ResetAfter: constants.DBCircuitBreakerReset,
		IsFailure:  IsInfrastructureError,
		Logger:     log,
	})
	return NewGuard(breaker, DefaultRetryConfig, log)
}

// IsInfrastructureError reports errors that say something about the health of
// the store. Empty results, domain errors and integrity constraint violations
// (SQLSTATE class 23) are answers to the request, not store failures.
func IsInfrastructureError(err error) bool {
	return err != nil && !IsNoRows(err) && !commonerrors.IsDomainError(err) && !IsConstraintViolation(err)
}

// IsConstraintViolation matches Postgres integrity constraint errors such as
// unique (23505) and foreign key (23503) violations.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23")
}

func (g *Guard) Read(ctx context.Context, fn func(context.Context) error) error {
	return g.run(ctx, IsRetryableError, fn)
}

func (g *Guard) Write(ctx context.Context, fn func(context.Context) error) error {
	return g.run(ctx, pgconn.SafeToRetry, fn)
}

func (g *Guard) run(ctx context.Context, retryable func(error) bool, fn func(context.Context) error) error {
	if g == nil {
		return fn(ctx)
	}

	call := func(ctx context.Context) error {
		return RetryWithBackoff(ctx, g.log, g.retry, retryable, func() error {
			return fn(ctx)
		})
	}
	if g.breaker == nil {
		return call(ctx)
	}
	return g.breaker.Call(ctx, call)
}
