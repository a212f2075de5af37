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

	"github.com/LaTashkhat17/Inventory-Management-System/internal/config"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/infra"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/router"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Pretty console output in development, JSON in production.
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := infra.InitTelemetry(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init telemetry")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Redis backs the dashboard cache, rate limits and the receipt queue.
	// Without it those features degrade instead of blocking startup.
	var rdb *redis.Client
	if rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("redis unavailable; cache, rate limiting and receipts disabled")
		rdb = nil
	}

	var notifier service.ReceiptNotifier
	receipts := rdb != nil && cfg.ReceiptEmailsEnabled && cfg.SMTPHost != ""
	if receipts {
		notifier = worker.NewDispatcher(rdb)
	}

	svc := router.NewServices(cfg, db, rdb, notifier)
	if err := svc.Auth.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure default admin")
	}

	// Worker handlers are wired here (composition root) so the pool can reach
	// the ledger service and the mailer.
	var workers interface{ Wait() }
	if receipts {
		breaker := infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())
		receiptWorker := worker.NewReceiptWorker(svc.Ledger, infra.NewMailer(cfg), breaker, cfg.BusinessName)
		workers = worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, receiptWorker)
	}

	r := router.New(cfg, db, rdb, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("POS ledger backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if workers != nil {
		workers.Wait()
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("telemetry shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
