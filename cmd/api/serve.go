package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/crowdinfra/crowdinfra-api/internal/api/http"
	"github.com/crowdinfra/crowdinfra-api/internal/api/http/handlers"
	"github.com/crowdinfra/crowdinfra-api/internal/auth"
	"github.com/crowdinfra/crowdinfra-api/internal/cache"
	"github.com/crowdinfra/crowdinfra-api/internal/config"
	"github.com/crowdinfra/crowdinfra-api/internal/events"
	"github.com/crowdinfra/crowdinfra-api/internal/observability"
	"github.com/crowdinfra/crowdinfra-api/internal/persistence"
	"github.com/crowdinfra/crowdinfra-api/internal/repository"
	"github.com/crowdinfra/crowdinfra-api/internal/service"
	"github.com/crowdinfra/crowdinfra-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Long:  "Starts the API. Without POSTGRES_DSN all data lives in memory; without Redis the demand cache and token revocation are disabled.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

type repositories struct {
	backend    string
	demands    repository.DemandRepository
	properties repository.PropertyRepository
	ratings    repository.RatingRepository
	users      repository.UserRepository
}

func newRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		return repositories{
			backend:    "memory",
			demands:    repository.NewMemoryDemandRepository(),
			properties: repository.NewMemoryPropertyRepository(),
			ratings:    repository.NewMemoryRatingRepository(),
			users:      repository.NewMemoryUserRepository(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		backend:    "postgres",
		demands:    repository.NewDemandRepository(pool),
		properties: repository.NewPropertyRepository(pool),
		ratings:    repository.NewRatingRepository(pool),
		users:      repository.NewUserRepository(pool),
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	repos := newRepositories(pg)
	logger.Info("storage backend selected", zap.String("backend", repos.backend))

	var demandCache service.DemandCache
	var revocations auth.RevocationStore
	if rdb.Enabled() {
		demandCache = cache.NewDemandCache(rdb.Client, cfg.Cache.DemandTTL())
		revocations = auth.NewRedisRevocationStore(rdb.Client)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(logger, cfg.Notification)
	notifications := worker.StartNotificationWorker(dispatcher, notifier, logger, 0)
	defer notifications.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, revocations, cfg.Auth.CookieName, logger)

	demandService := service.NewDemandService(service.DemandDependencies{
		DemandRepo:          repos.demands,
		Cache:               demandCache,
		Dispatcher:          dispatcher,
		Logger:              logger,
		DefaultRadiusMeters: cfg.Geo.DefaultRadiusMeters,
	})
	propertyService := service.NewPropertyService(repos.properties, dispatcher, logger)
	ratingService := service.NewRatingService(repos.ratings, dispatcher, logger)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    repos.users,
		Tokens:      tokens,
		Revocations: revocations,
		Logger:      logger,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ErrorHandler:          httptransport.ErrorHandler(logger, metrics),
		DisableStartupMessage: !cfg.App.IsDevelopment(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	deps := map[string]handlers.Pinger{"postgres": pg, "redis": rdb}
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, repos.backend, deps, metrics),
		Demands:        handlers.NewDemandHandler(demandService),
		Properties:     handlers.NewPropertyHandler(propertyService),
		Ratings:        handlers.NewRatingHandler(ratingService),
		Auth:           handlers.NewAuthHandler(authService, authMiddleware, cfg.Auth.CookieName, !cfg.App.IsDevelopment()),
		AuthMiddleware: authMiddleware,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	return nil
}
