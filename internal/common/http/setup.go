package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/tasktrack/internal/common/constants"
	"github.com/AlibekovAA/tasktrack/internal/common/httpmetrics"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
)

// BuildBaseHandler wraps the router with the middleware every route shares.
// Order, outermost first: security headers, CORS, recovery, trace id, body limit.
func BuildBaseHandler(log *logger.Logger, allowedOrigins []string, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	cors := CORSMiddleware(allowedOrigins)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(cors(recovery(TraceIDMiddleware(maxRequestSize(handler)))))
}

// NewRouter returns a chi router that records request metrics per route pattern
// and answers unknown routes and methods with JSON envelopes.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(httpmetrics.New().Wrap)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})
	return r
}
