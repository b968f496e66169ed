package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pedro-it/portal-api/internal/ai"
	httptransport "github.com/pedro-it/portal-api/internal/api/http"
	"github.com/pedro-it/portal-api/internal/api/http/handlers"
	"github.com/pedro-it/portal-api/internal/auth"
	"github.com/pedro-it/portal-api/internal/chatbot"
	"github.com/pedro-it/portal-api/internal/config"
	"github.com/pedro-it/portal-api/internal/events"
	"github.com/pedro-it/portal-api/internal/observability"
	"github.com/pedro-it/portal-api/internal/payments"
	"github.com/pedro-it/portal-api/internal/persistence"
	"github.com/pedro-it/portal-api/internal/ratelimit"
	"github.com/pedro-it/portal-api/internal/repository"
	"github.com/pedro-it/portal-api/internal/service"
	"github.com/pedro-it/portal-api/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	clientServiceRepo := repository.NewClientServiceRepository(pool)
	chatRepo := repository.NewChatMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	var provider payments.Provider
	if stripeProvider := payments.NewStripeProvider(cfg.Stripe, cfg.App.FrontendURL); stripeProvider != nil {
		provider = stripeProvider
	} else {
		logger.Warn("STRIPE_SECRET_KEY not provided; checkout disabled")
	}

	var generator ai.Generator
	if anthropic := ai.NewAnthropicClient(cfg.AI); anthropic != nil {
		generator = anthropic
	} else {
		logger.Warn("ANTHROPIC_API_KEY not provided; assistant falls back to keyword matcher")
	}

	limiter := ratelimit.NewRedisLimiter(redis.Client, cfg.Chat.RateLimitMax, cfg.Chat.RateLimitWindow)

	authService := service.NewAuthService(*cfg, userRepo, provider, logger)
	ticketService := service.NewTicketService(ticketRepo, messageRepo, dispatcher)
	invoiceService := service.NewInvoiceService(invoiceRepo, userRepo, provider, dispatcher, logger)
	catalogService := service.NewCatalogService(serviceRepo, clientServiceRepo, userRepo, dispatcher)
	chatService := service.NewChatService(chatRepo, userRepo, limiter, generator, chatbot.NewDefaultMatcher(), cfg.Chat, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Invoices:       handlers.NewInvoicesHandler(invoiceService),
		Services:       handlers.NewServicesHandler(catalogService),
		Chat:           handlers.NewChatHandler(chatService),
		Webhooks:       handlers.NewWebhooksHandler(provider, invoiceService, logger),
		Admin:          handlers.NewAdminHandler(ticketService, invoiceService),
		AuthMiddleware: authMiddleware,
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
