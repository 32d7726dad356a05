package constants

import "time"

const (
	JWTSecretMinLength = 32

	DefaultBcryptCost     = 10
	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	DBCircuitBreakerThreshold = 20
	DBCircuitBreakerTimeout   = 10 * time.Second
	DBCircuitBreakerReset     = 15 * time.Second

	SQLiteBusyTimeoutMillis = 5000

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultRequestTimeout = 5 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	DefaultWebSocketMaxMsgSize = 4 * 1024
	WebSocketReadBufferSize    = 1024
	WebSocketWriteBufferSize   = 1024

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)
