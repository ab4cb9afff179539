package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/tryon-service/internal/api/http"
	"github.com/spec-kit/tryon-service/internal/api/http/handlers"
	"github.com/spec-kit/tryon-service/internal/auth"
	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/email"
	"github.com/spec-kit/tryon-service/internal/events"
	"github.com/spec-kit/tryon-service/internal/oauth"
	"github.com/spec-kit/tryon-service/internal/observability"
	"github.com/spec-kit/tryon-service/internal/persistence"
	"github.com/spec-kit/tryon-service/internal/progress"
	"github.com/spec-kit/tryon-service/internal/repository"
	"github.com/spec-kit/tryon-service/internal/service"
	"github.com/spec-kit/tryon-service/internal/storage"
	"github.com/spec-kit/tryon-service/internal/tryon"
	"github.com/spec-kit/tryon-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	progressStore, redis := buildProgressStore(cfg, logger)
	if redis != nil {
		defer redis.Close()
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	modelStore := buildModelStore(cfg, logger)
	sender := buildEmailSender(cfg, logger)

	provider := tryon.NewClient(cfg.TryOn.BaseURL, cfg.TryOn.APIKey,
		time.Duration(cfg.TryOn.SubmitTimeoutSec)*time.Second)
	orchestrator := tryon.NewOrchestrator(provider, progressStore, logger,
		cfg.TryOn.PollInterval(), cfg.TryOn.MaxAttempts)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	tryonService := service.NewTryOnService(*cfg, service.TryOnDependencies{
		OrderRepo:    orderRepo,
		Progress:     progressStore,
		Orchestrator: orchestrator,
		Models:       modelStore,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	notificationService := service.NewNotificationService(dispatcher, sender, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, cfg.Auth.CookieName)
	providerRegistry := oauth.NewRegistry(cfg.OAuth)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 25 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, providerRegistry, *cfg),
		Users:          handlers.NewUsersHandler(),
		Models:         handlers.NewModelsHandler(modelStore),
		TryOn:          handlers.NewTryOnHandler(tryonService),
		Orders:         handlers.NewOrdersHandler(tryonService),
		Download:       handlers.NewDownloadHandler(cfg.Download),
		Facebook:       handlers.NewFacebookHandler(authService, cfg.OAuth.Facebook.ClientSecret, cfg.App.PublicBaseURL),
		AuthMiddleware: authMiddleware,
		StaticDir:      cfg.App.StaticDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	tryonService.Wait()
}

func buildProgressStore(cfg *config.Config, logger *zap.Logger) (progress.Store, *persistence.Redis) {
	if cfg.TryOn.ProgressBackend == "redis" {
		redis := persistence.NewRedis(cfg.Redis, logger)
		return progress.NewRedisStore(redis.Client, cfg.TryOn.ProgressTTL()), redis
	}
	return progress.NewMemoryStore(), nil
}

func buildModelStore(cfg *config.Config, logger *zap.Logger) storage.ModelStore {
	if cfg.Models.Backend == "minio" {
		store, err := storage.NewMinIOModelStore(cfg.Models.MinIO)
		if err != nil {
			logger.Fatal("failed to init minio model store", zap.Error(err))
		}
		return store
	}
	return storage.NewLocalModelStore(cfg.Models.Dir, "/modelsImages")
}

func buildEmailSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	switch cfg.Email.Backend {
	case "brevo":
		return email.NewBrevoSender(cfg.Email)
	case "smtp":
		return email.NewSMTPSender(cfg.Email)
	default:
		return email.NewLogSender(logger)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
