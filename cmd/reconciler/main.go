package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/carebridge/server/internal/adapter/repo"
	"github.com/carebridge/server/internal/infra"
	"github.com/carebridge/server/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "reconciler")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("reconciler: db connection failed")
	}
	defer pool.Close()

	reconciler := service.NewReconciler(
		repo.NewCampaignRepository(pool),
		repo.NewDonationRepository(pool),
		logger,
	)

	if err := reconciler.Run(ctx, cfg.ReconcileInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("reconciler: stopped with error")
	}
	logger.Info().Msg("reconciler: stopped")
}
