package http

import (
	"net/http"
	"runtime/debug"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/httpmetrics"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

// RecoveryMiddleware answers a panicking handler with a 500 envelope.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				metrics.PanicsRecovered.WithLabelValues(httpmetrics.RoutePattern(r)).Inc()
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"method": r.Method,
					"action": "panic_recovered",
				}).Errorf("panic recovered: %v\n%s", rec, debug.Stack())

				internal := commonerrors.ErrInternalError
				WriteErrorEnvelope(w, internal.HTTPStatus(), internal.Code(), internal.Message(), nil, logger.TraceIDFromContext(r.Context()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
