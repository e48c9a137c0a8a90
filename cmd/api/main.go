package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sachi-ghani/storefront-service/internal/api/http"
	"github.com/sachi-ghani/storefront-service/internal/api/http/handlers"
	"github.com/sachi-ghani/storefront-service/internal/auth"
	"github.com/sachi-ghani/storefront-service/internal/config"
	"github.com/sachi-ghani/storefront-service/internal/events"
	"github.com/sachi-ghani/storefront-service/internal/mail"
	"github.com/sachi-ghani/storefront-service/internal/observability"
	"github.com/sachi-ghani/storefront-service/internal/persistence"
	"github.com/sachi-ghani/storefront-service/internal/repository"
	"github.com/sachi-ghani/storefront-service/internal/service"
	"github.com/sachi-ghani/storefront-service/internal/storage"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	sender := mail.NewSender(cfg.Mail, logger)
	notifications := service.NewNotificationService(dispatcher, sender, logger, cfg.App)
	notifications.RegisterHandlers()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	cartService := service.NewCartService(userRepo)
	orderService := service.NewOrderService(orderRepo, dispatcher)
	feedbackService := service.NewFeedbackService(feedbackRepo, dispatcher)
	uploader := storage.NewImageUploader(cfg.Storage, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Cart:           handlers.NewCartHandler(cartService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Feedback:       handlers.NewFeedbackHandler(feedbackService),
		Upload:         handlers.NewUploadHandler(uploader),
		AuthMiddleware: authMiddleware,
		RateLimiter:    httptransport.NewRateLimiter(redis, cfg.RateLimit, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
