package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carebridge/server/internal/adapter/repo"
	"github.com/carebridge/server/internal/auth"
	"github.com/carebridge/server/internal/http/handlers"
	"github.com/carebridge/server/internal/http/httpapi"
	"github.com/carebridge/server/internal/infra"
	"github.com/carebridge/server/internal/infra/geoip"
	"github.com/carebridge/server/internal/middleware"
	"github.com/carebridge/server/internal/providers/card"
	"github.com/carebridge/server/internal/providers/wallet"
	"github.com/carebridge/server/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	users := repo.NewUserRepository(dbpool)
	campaigns := repo.NewCampaignRepository(dbpool)
	donations := repo.NewDonationRepository(dbpool)
	updates := repo.NewCampaignUpdateRepository(dbpool)
	medical := repo.NewMedicalRecordRepository(dbpool)
	paymentMethods := repo.NewPaymentMethodRepository(dbpool)
	stats := repo.NewStatsRepository(dbpool)

	identity := service.NewIdentityResolver(users, logger)
	recorder := service.NewDonationRecorder(donations, identity, logger)

	var cards card.PaymentAuthority
	if cfg.CardAPIKey != "" {
		cardClient, err := card.NewClient(card.Options{
			APIKey:  cfg.CardAPIKey,
			BaseURL: cfg.CardBaseURL,
			Logger:  &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure card processor")
		}
		cards = cardClient
	}

	var wallets wallet.TransferAuthority
	if cfg.WalletProjectID != "" {
		walletClient, err := wallet.NewClient(wallet.Options{
			ProjectID: cfg.WalletProjectID,
			BaseURL:   cfg.WalletBaseURL,
			Logger:    &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure wallet gateway")
		}
		wallets = walletClient
	}

	payments := service.NewPaymentFlow(cards, wallets, recorder, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTLifetime)

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	app := &handlers.App{
		Users:          users,
		Campaigns:      campaigns,
		Donations:      donations,
		Updates:        updates,
		MedicalRecords: medical,
		PaymentMethods: paymentMethods,
		Stats:          stats,
		Recorder:       recorder,
		Payments:       payments,
		Authenticator:  auth.NewPasswordAuthenticator(users),
		Tokens:         tokens,
		Treasury:       cfg.TreasuryAddress,
		Logger:         logger,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   countryLookup,
		Tokens:          tokens,
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("api listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
