package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quality-audit/backend/internal/config"
	"github.com/quality-audit/backend/internal/db"
	"github.com/quality-audit/backend/internal/repositories"
	"github.com/quality-audit/backend/internal/services"
	"go.uber.org/zap"
)

// Sweeps non-conformities whose creation email never went out (API crash,
// SMTP outage) and retries delivery. The grace period keeps it from racing
// the API's own in-process dispatch.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	ncRepo := repositories.NewNonConformityRepo(pool)
	mailer := services.NewMailer(cfg, log)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down notifier...")
		cancel()
	}()

	log.Info("notifier started",
		zap.Duration("interval", cfg.NotifierInterval),
		zap.Duration("grace", cfg.NotifierGrace))

	ticker := time.NewTicker(cfg.NotifierInterval)
	defer ticker.Stop()

	sweep(ctx, ncRepo, mailer, cfg.NotifierGrace, log)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, ncRepo, mailer, cfg.NotifierGrace, log)
		}
	}
}

func sweep(ctx context.Context, ncRepo *repositories.NonConformityRepo, mailer *services.Mailer, grace time.Duration, log *zap.Logger) {
	pending, err := ncRepo.ListEmailPending(ctx, grace, 50)
	if err != nil {
		log.Error("failed to list pending notifications", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Info("retrying non-conformity notifications", zap.Int("count", len(pending)))
	for _, nc := range pending {
		if err := mailer.SendNCCreation(nc); err != nil {
			log.Warn("notification retry failed",
				zap.String("nc_id", nc.ID.String()), zap.Error(err))
			continue
		}
		if err := ncRepo.MarkEmailSent(ctx, nc.ID); err != nil {
			log.Error("failed to mark email sent",
				zap.String("nc_id", nc.ID.String()), zap.Error(err))
		}
	}
}
