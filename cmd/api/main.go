package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/api"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/audit"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/config"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/ledger"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/logger"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/metrics"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	wp := worker.NewPool(cfg.AuditWorkers, cfg.AuditBuffer)
	defer wp.Stop()

	trail := audit.NewTrail(wp, cfg.AuditBuffer)
	led := ledger.New(cfg.LedgerShards, trail)

	r := api.NewRouter(cfg, led)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "shards", cfg.LedgerShards)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
