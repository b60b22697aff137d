package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/josh-kwaku/risk-analyses-service/internal/config"
	"github.com/josh-kwaku/risk-analyses-service/internal/handler"
	"github.com/josh-kwaku/risk-analyses-service/internal/httpclient"
	"github.com/josh-kwaku/risk-analyses-service/internal/logging"
	"github.com/josh-kwaku/risk-analyses-service/internal/metrics"
	"github.com/josh-kwaku/risk-analyses-service/internal/middleware"
	"github.com/josh-kwaku/risk-analyses-service/internal/repository"
	"github.com/josh-kwaku/risk-analyses-service/internal/service/risk"
	"github.com/josh-kwaku/risk-analyses-service/internal/upstream"
)

const idempotencyTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("risk-analyses-service", cfg.LogLevel, cfg.AppEnv)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DialTimeout:  500 * time.Millisecond,
		ReadTimeout:  300 * time.Millisecond,
		WriteTimeout: 300 * time.Millisecond,
	})
	defer redisClient.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStartup()
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		// Degraded but usable: idempotency replay is skipped while down.
		slog.Warn("redis unreachable at startup", "error", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	outbound := httpclient.New(cfg.RequestTimeout(), cfg.DefaultRequestRetries, collector)

	payments := upstream.NewPaymentStoreClient(cfg.PaymentStorageURL, outbound)
	tokens := upstream.NewTokenizationClient(cfg.TokenizationURL, cfg.TokenizationUsername, cfg.TokenizationPassword, outbound)
	apps := upstream.NewAppConfigClient(cfg.AppsStorageURL, outbound)
	providers := upstream.NewProviderConfigClient(cfg.ProviderConfigurationsURL, cfg.Environment, outbound)
	riskProvider := upstream.NewRiskProviderClient(cfg.RiskProviderURL, cfg.Environment, cfg.RiskRequestTimeout(), outbound)

	if err := tokens.Login(startupCtx); err != nil {
		slog.Warn("tokenization login failed at startup, retrying on first use", "error", err)
	}

	svc := risk.NewService(payments, tokens, apps, providers, riskProvider, cfg.MaxActionsForPayment)

	riskHandler := handler.NewRiskHandler(svc)
	healthHandler := handler.NewHealthHandler(redisClient)
	idempotencyStore := repository.NewIdempotencyStore(redisClient, idempotencyTTL)

	r := chi.NewRouter()
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	r.Get("/health", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/payments/{payment_id}/risk-analyses", func(r chi.Router) {
		r.With(middleware.Idempotency(idempotencyStore)).Post("/", riskHandler.Create)
		r.Get("/", riskHandler.List)
		r.Get("/{risk_analyses_id}", riskHandler.GetByID)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
