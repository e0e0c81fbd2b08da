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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/push-api/internal/config"
	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/messaging/redis"
	"github.com/jwalitptl/push-api/pkg/metrics"
	"github.com/jwalitptl/push-api/pkg/worker"
)

func setupHealthCheck(port int, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.Format == "json",
	})
	log.SetGlobal()

	if cfg.Redis.URL == "" {
		log.Fatal(errors.New("REDIS_URL is not set"), "worker needs a broker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Redis broker
	broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "Failed to create Redis broker")
	}
	defer broker.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.NewConsumerMetrics(reg, cfg.Metrics.Prefix)

	srv := setupHealthCheck(cfg.Worker.Port, reg)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Health check server failed")
		}
	}()

	consumer := worker.NewEventConsumer(
		broker,
		cfg.Redis.Channel,
		worker.NewDeliveryLogHandler(log, m),
		log,
		m,
	)
	if err := consumer.Start(ctx); err != nil {
		log.Error(err, "event consumer stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "health server forced to shutdown")
	}
}
