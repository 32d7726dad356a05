// Package token issues and verifies HS256 bearer tokens carrying the caller identity.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/tasktrack/internal/common/clock"
	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/jwtverify"
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

const (
	claimSubject  = "sub"
	claimUsername = "usr"
	claimIssuedAt = "iat"
)

// Service signs tokens with a process-wide secret. Tokens carry no expiry:
// a correctly signed token stays valid until the secret is rotated.
type Service struct {
	secret []byte
	clock  clock.Clock
	parser *jwt.Parser
}

func NewService(secret string, clk clock.Clock) *Service {
	return &Service{
		secret: []byte(secret),
		clock:  clk,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (s *Service) Issue(claims jwtverify.Claims) (string, error) {
	if claims.UserID == "" || claims.Username == "" {
		return "", errors.New("token claims require user id and username")
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimSubject:  claims.UserID,
		claimUsername: claims.Username,
		claimIssuedAt: s.clock.Now().Unix(),
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	metrics.AccessTokensIssued.Inc()
	return signed, nil
}

// Verify checks the signature and shape of tokenString. Every failure is ErrInvalidToken.
func (s *Service) Verify(tokenString string) (jwtverify.Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	parsed, err := s.parser.Parse(tokenString, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		metrics.JWTValidationsFailed.WithLabelValues(failureReason(err)).Inc()
		return jwtverify.Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.JWTValidationsFailed.WithLabelValues("claims").Inc()
		return jwtverify.Claims{}, commonerrors.ErrInvalidToken
	}

	sub, _ := mapClaims[claimSubject].(string)
	username, _ := mapClaims[claimUsername].(string)
	if sub == "" || username == "" {
		metrics.JWTValidationsFailed.WithLabelValues("claims").Inc()
		return jwtverify.Claims{}, commonerrors.ErrInvalidToken
	}

	return jwtverify.Claims{UserID: sub, Username: username}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return "invalid"
	}
}
