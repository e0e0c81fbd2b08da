package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jwalitptl/push-api/internal/app"
	"github.com/jwalitptl/push-api/internal/config"
	"github.com/jwalitptl/push-api/internal/repository/postgres"
	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/messaging"
	"github.com/jwalitptl/push-api/pkg/messaging/redis"
	"github.com/jwalitptl/push-api/pkg/push"
	"github.com/jwalitptl/push-api/pkg/push/fcm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.Format == "json",
	})
	log.SetGlobal()
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal(err, "database migration failed")
	}

	sender, err := newSender(ctx, cfg, log)
	if err != nil {
		log.Fatal(err, "failed to initialize push provider")
	}

	// Initialize Redis message broker
	var publisher messaging.Publisher
	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()
		publisher = messaging.NewChannelPublisher(broker, cfg.Redis.Channel)
		log.Info("delivery events enabled", "channel", cfg.Redis.Channel)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, cfg.Database.Driver),
	)

	r := app.New(app.Deps{
		Config:    cfg,
		DB:        db,
		Sender:    sender,
		Publisher: publisher,
		Registry:  reg,
		Logger:    log,
	})

	// Create server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Info("push api listening", "addr", srv.Addr, "provider", cfg.Push.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}

func newSender(ctx context.Context, cfg *config.Config, log *logger.Logger) (push.Sender, error) {
	if cfg.Push.Provider == "log" {
		log.Warn("push provider is log: notifications are not delivered")
		return push.NewLogSender(log), nil
	}
	return fcm.NewClient(ctx, fcm.Config{
		CredentialsFile: cfg.Push.CredentialsFile,
		ProjectID:       cfg.Push.ProjectID,
	}, log)
}
