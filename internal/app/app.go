// Package app wires repositories, services and handlers into an HTTP router.
package app

import (
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/push-api/internal/config"
	"github.com/jwalitptl/push-api/internal/handler/health"
	messageHandler "github.com/jwalitptl/push-api/internal/handler/message"
	tokenHandler "github.com/jwalitptl/push-api/internal/handler/token"
	userHandler "github.com/jwalitptl/push-api/internal/handler/user"
	"github.com/jwalitptl/push-api/internal/middleware"
	"github.com/jwalitptl/push-api/internal/repository/postgres"
	"github.com/jwalitptl/push-api/internal/router"
	deliveryService "github.com/jwalitptl/push-api/internal/service/delivery"
	dispatchService "github.com/jwalitptl/push-api/internal/service/dispatch"
	eventService "github.com/jwalitptl/push-api/internal/service/event"
	messageService "github.com/jwalitptl/push-api/internal/service/message"
	tokenService "github.com/jwalitptl/push-api/internal/service/token"
	userService "github.com/jwalitptl/push-api/internal/service/user"
	"github.com/jwalitptl/push-api/pkg/auth"
	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/messaging"
	"github.com/jwalitptl/push-api/pkg/metrics"
	"github.com/jwalitptl/push-api/pkg/push"
)

type Deps struct {
	Config *config.Config
	DB     *sqlx.DB
	Sender push.Sender
	// Publisher receives delivery events; nil disables them.
	Publisher messaging.Publisher
	Registry  *prometheus.Registry
	Logger    *logger.Logger
}

// New builds the router with every route registered.
func New(deps Deps) *router.Router {
	cfg := deps.Config
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.NewMetrics(reg, cfg.Metrics.Prefix)

	// Initialize repositories
	base := postgres.NewBaseRepository(deps.DB)
	userRepo := postgres.NewUserRepository(base)
	tokenRepo := postgres.NewDeviceTokenRepository(base)
	messageRepo := postgres.NewMessageRepository(base)
	deliveryRepo := postgres.NewDeliveryRepository(base)

	// Initialize services
	userSvc := userService.NewService(userRepo)
	tokenSvc := tokenService.NewService(tokenRepo, userRepo)
	messageSvc := messageService.NewService(messageRepo)
	ledger := deliveryService.NewService(deliveryRepo)
	events := eventService.NewEventService(deps.Publisher, m, deps.Logger)
	dispatcher := dispatchService.NewDispatcher(
		messageSvc,
		tokenSvc,
		ledger,
		deps.Sender,
		events,
		m,
		deps.Logger,
		dispatchService.Config{Concurrency: cfg.Dispatch.Concurrency},
	)

	var authMiddleware *middleware.AuthMiddleware
	if cfg.Auth.JWTSecret != "" {
		authMiddleware = middleware.NewAuthMiddleware(auth.NewJWTService(cfg.Auth.JWTSecret))
	}

	r := router.NewRouter(
		authMiddleware,
		health.NewHandler(deps.DB),
		userHandler.NewHandler(userSvc, messageSvc),
		tokenHandler.NewHandler(tokenSvc),
		messageHandler.NewHandler(dispatcher, messageSvc, ledger),
		router.RouterConfig{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CORSConfig:    middleware.DefaultCORSConfig(),
			SizeLimit:     middleware.DefaultSizeLimitConfig(),
			MetricsPrefix: cfg.Metrics.Prefix,
			Registerer:    reg,
			Gatherer:      reg,
		},
	)
	r.Setup()
	return r
}
