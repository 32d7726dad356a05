package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/resilience"
)

var fastRetry = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     time.Millisecond,
	Multiplier:   1,
}

func TestGuard_ReadRetriesTransientErrors(t *testing.T) {
	g := NewGuard(nil, fastRetry, nil)

	calls := 0
	err := g.Read(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestGuard_WriteDoesNotRetryServerErrors(t *testing.T) {
	g := NewGuard(nil, fastRetry, nil)

	calls := 0
	err := g.Write(context.Background(), func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("write must run once, ran %d times", calls)
	}
}

func TestGuard_NilGuardRunsDirectly(t *testing.T) {
	var g *Guard
	want := errors.New("boom")
	if err := g.Write(context.Background(), func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("expected passthrough error, got %v", err)
	}
}

func TestGuard_DomainErrorsKeepBreakerClosed(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  1,
		ResetAfter: time.Minute,
		IsFailure:  IsInfrastructureError,
	})
	g := NewGuard(breaker, fastRetry, nil)

	_ = g.Read(context.Background(), func(context.Context) error { return commonerrors.ErrValidation })
	if breaker.IsOpen() {
		t.Fatal("domain error must not open the breaker")
	}

	_ = g.Read(context.Background(), func(context.Context) error { return errors.New("connection refused") })
	if !breaker.IsOpen() {
		t.Fatal("infrastructure error should open the breaker at threshold 1")
	}

	err := g.Read(context.Background(), func(context.Context) error { return nil })
	if !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestGuard_UniqueViolationKeepsBreakerClosed(t *testing.T) {
	g := NewDefaultGuard("users_store", nil)
	duplicate := &pgconn.PgError{Code: "23505"}

	for i := 0; i < 25; i++ {
		err := g.Write(context.Background(), func(context.Context) error { return duplicate })
		if !errors.Is(err, duplicate) {
			t.Fatalf("write %d: expected unique violation, got %v", i, err)
		}
	}

	if err := g.Read(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("healthy read after repeated duplicates: %v", err)
	}
}

func TestIsInfrastructureError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"domain", commonerrors.ErrValidation, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"plain", errors.New("connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInfrastructureError(tt.err); got != tt.want {
				t.Errorf("IsInfrastructureError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, false},
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain", errors.New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}
