package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/AlibekovAA/tasktrack/internal/common/constants"
)

var (
	ErrMissingRequiredEnv  = errors.New("missing required environment variable")
	ErrInvalidJWTSecret    = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrUnknownStoreDriver  = errors.New("unknown STORE_DRIVER")
	ErrInvalidBcryptCost   = errors.New("BCRYPT_COST out of range")
	ErrInvalidTrustedProxy = errors.New("TRUSTED_PROXIES entry is not an IP or CIDR")
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type APIConfig struct {
	HTTPPort       string        `env:"API_HTTP_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	StoreDriver    string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"tasktrack.db"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	JWTSecret  string `env:"JWT_SECRET"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	LogDir   string `env:"LOG_DIR"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// TrustedProxies lists the peers (IPs or CIDRs) whose X-Real-IP and
	// X-Forwarded-For headers are believed. Empty means key on the peer address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	RateLimitRPS       float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"1"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"5"`

	WebSocketWriteWait   time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	WebSocketPongWait    time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	WebSocketPingPeriod  time.Duration `env:"WS_PING_PERIOD" envDefault:"54s"`
	WebSocketSendBufSize int           `env:"WS_SEND_BUFFER" envDefault:"64"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadAPIConfig() (APIConfig, error) {
	var cfg APIConfig
	if err := ParseEnv(&cfg); err != nil {
		return APIConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return APIConfig{}, err
	}
	return cfg, nil
}

func (c *APIConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingRequiredEnv)
	}
	if err := validateJWTSecret(c.JWTSecret); err != nil {
		return err
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingRequiredEnv)
		}
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH", ErrMissingRequiredEnv)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("%w: %d", ErrInvalidBcryptCost, c.BcryptCost)
	}
	if err := validateTrustedProxies(c.TrustedProxies); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = constants.DefaultRequestTimeout
	}
	if c.WebSocketPingPeriod >= c.WebSocketPongWait {
		c.WebSocketPingPeriod = (c.WebSocketPongWait * 9) / 10
	}
	return nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func validateTrustedProxies(entries []string) error {
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if net.ParseIP(entry) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(entry); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, entry)
		}
	}
	return nil
}
