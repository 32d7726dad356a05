package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

// IsNoRows matches the empty-result error of both pgx and database/sql.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// ObserveQuery records the duration of a store call and, for unexpected
// errors, an error count. It returns err wrapped with the operation name;
// a no-rows result is replaced by notFoundErr.
func ObserveQuery(operation, table string, start time.Time, err error, notFoundErr error) error {
	metrics.StoreQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())

	if err == nil {
		return nil
	}
	if notFoundErr != nil && IsNoRows(err) {
		return notFoundErr
	}
	metrics.StoreQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}
