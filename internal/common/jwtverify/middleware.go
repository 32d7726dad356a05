// Package jwtverify resolves the caller identity from a bearer token at the
// request boundary.
package jwtverify

import (
	"context"
	"net/http"
	"strings"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	commonhttp "github.com/AlibekovAA/tasktrack/internal/common/http"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
)

type Claims struct {
	UserID   string
	Username string
}

type Verifier interface {
	Verify(token string) (Claims, error)
}

type contextKey struct{}

var claimsKey contextKey

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}

// Authenticate resolves claims from a raw Authorization header. A missing header
// and a bad token both yield ErrUnauthorized.
func Authenticate(v Verifier, header string) (Claims, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Claims{}, commonerrors.ErrUnauthorized
	}
	claims, err := v.Verify(token)
	if err != nil {
		return Claims{}, commonerrors.ErrUnauthorized.WithCause(err)
	}
	return claims, nil
}

func Middleware(v Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := Authenticate(v, r.Header.Get("Authorization"))
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_auth_failed",
				}).Debugf("jwt auth failed: %v", err)
				commonhttp.WriteErrorEnvelope(
					w,
					http.StatusUnauthorized,
					commonerrors.ErrUnauthorized.Code(),
					commonerrors.ErrUnauthorized.Message(),
					nil,
					logger.TraceIDFromContext(r.Context()),
				)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}
