package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-desk/internal/api/http"
	"github.com/spec-kit/ticket-desk/internal/api/http/handlers"
	"github.com/spec-kit/ticket-desk/internal/auth"
	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/observability"
	"github.com/spec-kit/ticket-desk/internal/persistence"
	"github.com/spec-kit/ticket-desk/internal/repository"
	"github.com/spec-kit/ticket-desk/internal/service"
	"github.com/spec-kit/ticket-desk/internal/worker"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	store := pflag.String("store", "", "document store driver override (file|redis|postgres|sqlite|memory)")
	pflag.Parse()

	if *store != "" {
		_ = os.Setenv("STORE_DRIVER", *store)
	}
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobs, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.Error(err), zap.String("driver", cfg.Store.Driver))
	}
	defer blobs.Close()

	clk := clock.Real()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification, clk)
	worker.StartNotificationWorker(notifications, logger)

	accountRepo := repository.NewAccountRepository(blobs, logger, repository.AccountOptions{
		Hash:     auth.Hasher(cfg.Auth.BcryptCost),
		SeedDemo: cfg.Auth.SeedDemoAccount,
	})
	sessionRepo := repository.NewSessionRepository(blobs, logger)
	ticketRepo := repository.NewTicketRepository(blobs, logger)
	contactRepo := repository.NewContactRepository(blobs, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo:   accountRepo,
		SessionRepo:   sessionRepo,
		Notifications: notifications,
		Clock:         clk,
		Logger:        logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		Notifications: notifications,
		Clock:         clk,
		Logger:        logger,
	})
	contactService := service.NewContactService(contactRepo, notifications, clk)

	app := httptransport.NewApp(cfg.App, logger, metrics, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Driver, blobs),
		System:         handlers.NewSystemHandler(clk, metrics),
		Auth:           handlers.NewAuthHandler(authService, cfg.App.Env == "production"),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Contact:        handlers.NewContactHandler(contactService),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
