// Package bootstrap assembles the API process from its configuration.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/tasktrack/internal/auth/http"
	authservice "github.com/AlibekovAA/tasktrack/internal/auth/service"
	"github.com/AlibekovAA/tasktrack/internal/auth/token"
	"github.com/AlibekovAA/tasktrack/internal/common/clock"
	"github.com/AlibekovAA/tasktrack/internal/common/config"
	"github.com/AlibekovAA/tasktrack/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/tasktrack/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/tasktrack/internal/common/http"
	"github.com/AlibekovAA/tasktrack/internal/common/jwtverify"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/todo/events"
	todohttp "github.com/AlibekovAA/tasktrack/internal/todo/http"
	todoservice "github.com/AlibekovAA/tasktrack/internal/todo/service"
)

type App struct {
	Config  config.APIConfig
	Log     *logger.Logger
	Store   *Store
	Hub     *events.Hub
	Handler http.Handler

	cancel  context.CancelFunc
	hubDone chan struct{}
}

// NewLogger builds the process logger from the logging part of cfg.
func NewLogger(cfg config.APIConfig, serviceName string) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// NewApp opens the store, starts background workers and builds the full HTTP
// handler. Call Shutdown and then Close to release everything.
func NewApp(cfg config.APIConfig, log *logger.Logger) (*App, error) {
	clientIP, err := commonhttp.ClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}

	hub := events.NewHub(events.HubConfig{
		WriteWait:      cfg.WebSocketWriteWait,
		PongWait:       cfg.WebSocketPongWait,
		PingPeriod:     cfg.WebSocketPingPeriod,
		MaxMessageSize: constants.DefaultWebSocketMaxMsgSize,
		SendBufferSize: cfg.WebSocketSendBufSize,
	}, log)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	tokens := token.NewService(cfg.JWTSecret, clock.NewRealClock())
	credentials := authservice.NewCredentialService(authservice.CredentialServiceDeps{
		Repo:        store.Users,
		Hasher:      commoncrypto.NewBcryptHasher(cfg.BcryptCost),
		IDGenerator: commoncrypto.UUIDGenerator{},
		Tokens:      tokens,
		Log:         log,
	})
	tasks := todoservice.NewTaskService(todoservice.TaskServiceDeps{
		Repo:        store.Tasks,
		IDGenerator: commoncrypto.OrderedIDGenerator{},
		Publisher:   hub,
		Log:         log,
	})

	general := commonhttp.NewRateLimiter("general", cfg.RateLimitRPS, cfg.RateLimitBurst)
	strict := commonhttp.NewRateLimiter("auth", cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	general.StartCleanup(ctx)
	strict.StartCleanup(ctx)

	requireAuth := jwtverify.Middleware(tokens, log)
	authHandler := authhttp.NewHandler(credentials, cfg.RequestTimeout, log)
	taskHandler := todohttp.NewHandler(tasks, cfg.RequestTimeout, log)
	feed := events.NewHandler(hub, cfg.CORSAllowedOrigins, log)

	r := commonhttp.NewRouter()
	r.Get("/healthz", commonhttp.HealthHandler())
	r.Get("/readyz", commonhttp.ReadyHandler(store, log))
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Use(general.Middleware(clientIP))
		r.Route("/auth", func(r chi.Router) {
			authHandler.Routes(r, strict.Middleware(clientIP), requireAuth)
		})
		r.Route("/user/todo", func(r chi.Router) {
			taskHandler.Routes(r, requireAuth, feed)
		})
	})

	log.Infof("api assembled with %s store", store.Name)

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   store,
		Hub:     hub,
		Handler: commonhttp.BuildBaseHandler(log, cfg.CORSAllowedOrigins, r),
		cancel:  cancel,
		hubDone: hubDone,
	}, nil
}

// Shutdown stops background workers and disconnects event feed clients.
func (a *App) Shutdown(ctx context.Context) error {
	a.cancel()
	select {
	case <-a.hubDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) Close() {
	a.cancel()
	a.Store.Close()
}
