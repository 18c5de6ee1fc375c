package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hackucf/onboard/internal/api/http"
	"github.com/hackucf/onboard/internal/api/http/handlers"
	"github.com/hackucf/onboard/internal/auth"
	"github.com/hackucf/onboard/internal/config"
	"github.com/hackucf/onboard/internal/observability"
	"github.com/hackucf/onboard/internal/persistence"
	"github.com/hackucf/onboard/internal/repository"
	"github.com/hackucf/onboard/internal/service"
	"github.com/hackucf/onboard/internal/wallet"
)

const serviceName = "onboard"

func main() {
	boot, err := config.LoadBootstrap()
	if err != nil {
		log.Fatalf("failed to read environment: %v", err)
	}

	logger, err := observability.NewLogger(boot.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx, boot.ConfigPath, config.BitwardenCLI{Binary: boot.BwsBinary})
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", boot.ConfigPath), zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, *cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Database.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), "migrations", logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(*cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	assets, err := wallet.LoadAssets(cfg.Wallet.AssetsDir)
	if err != nil {
		logger.Fatal("failed to load wallet assets", zap.String("dir", cfg.Wallet.AssetsDir), zap.Error(err))
	}
	credential, err := wallet.LoadCredential(wallet.CredentialFiles{
		KeyFile:      cfg.Wallet.KeyFile,
		CertFile:     cfg.Wallet.CertFile,
		P12File:      cfg.Wallet.P12File,
		Password:     cfg.Wallet.KeyPassword.Reveal(),
		WWDRCertFile: cfg.Wallet.WWDRCertFile,
	})
	if err != nil {
		logger.Fatal("failed to load signing credential", zap.Error(err))
	}

	avatars := wallet.NewAvatarFetcher(wallet.AvatarConfig{
		Client:      wallet.NewAvatarClient(cfg.Wallet.AvatarTimeout),
		FallbackURL: cfg.Wallet.FallbackAvatarURL,
		MaxBytes:    cfg.Wallet.AvatarMaxBytes,
		Logger:      logger,
		Recorder:    metrics,
	})
	builder, err := wallet.NewBuilder(wallet.BuilderConfig{
		Assets:     assets,
		Credential: credential,
		Avatars:    avatars,
		Identity: wallet.Identity{
			PassTypeIdentifier: cfg.Wallet.PassTypeIdentifier,
			TeamIdentifier:     cfg.Wallet.TeamIdentifier,
			OrganizationName:   cfg.Wallet.OrganizationName,
			Description:        cfg.Wallet.Description,
		},
		OmitAvatarOnFailure: cfg.Wallet.AvatarFailure == config.AvatarFailureOmit,
		Logger:              logger,
	})
	if err != nil {
		logger.Fatal("failed to build wallet builder", zap.Error(err))
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret.Reveal(), cfg.JWT.Algorithm, cfg.JWT.LifetimeUser, cfg.JWT.LifetimeSudo)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	walletService := service.NewWalletService(service.WalletDependencies{
		ProfileRepo: repository.NewProfileRepository(pg.PoolHandle()),
		Builder:     builder,
		Recorder:    metrics,
		Logger:      logger,
	})

	var dbCheck handlers.Pinger
	if pg.PoolHandle() != nil {
		dbCheck = pg
	}

	app := fiber.New(fiber.Config{AppName: serviceName})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.HTTP.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(serviceName, boot.Version, dbCheck, redis),
		Wallet:         handlers.NewWalletHandler(walletService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		RateLimiter:    httptransport.NewRateLimiter(redis, cfg.Wallet.RateLimitPerMinute, metrics, logger),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Listen); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("listening",
		zap.String("addr", cfg.HTTP.Listen),
		zap.String("domain", cfg.HTTP.Domain),
		zap.String("version", boot.Version),
	)

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
