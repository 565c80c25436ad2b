package main // storefront server entry point

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/ticketfella/internal/config"
	"github.com/iliyamo/ticketfella/internal/database"
	"github.com/iliyamo/ticketfella/internal/handler"
	"github.com/iliyamo/ticketfella/internal/inventory"
	"github.com/iliyamo/ticketfella/internal/middleware"
	"github.com/iliyamo/ticketfella/internal/model"
	"github.com/iliyamo/ticketfella/internal/purchase"
	"github.com/iliyamo/ticketfella/internal/queue"
	"github.com/iliyamo/ticketfella/internal/router"
	"github.com/iliyamo/ticketfella/internal/service"
	"github.com/iliyamo/ticketfella/internal/workflow"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("dotenv", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	gateway, closeGateway, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGateway()

	// Redis is optional: without it the catalog is not cached and
	// submissions are not rate limited.
	var catalogCache, submitLimit echo.MiddlewareFunc
	if rdb := config.NewRedisClient(ctx); rdb != nil {
		defer rdb.Close()
		catalogCache = middleware.ResponseCache(config.LoadCacheConfig(), middleware.NewRedisStore(rdb), logger)
		rlCfg := config.LoadRateLimitConfig()
		submitLimit = middleware.RateLimit(rlCfg, middleware.NewRedisBucket(rdb, rlCfg), logger)
	} else {
		logger.Warn("redis unavailable, catalog cache and submit rate limit disabled")
	}

	var events handler.OrderEvents
	if cfg.QueueEnabled {
		events = service.NewAMQPPublisher(cfg.RabbitURL, logger)
	}
	if cfg.QueueConsumerEnabled {
		consumer := &queue.OrderLogConsumer{URL: cfg.RabbitURL, LogPath: cfg.OrderLogPath, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("order consumer stopped", "error", err)
			}
		}()
	}

	handoffs := workflow.NewHandoffs(cfg.HandoffTTL)
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(e, router.Deps{
		Browse: &handler.BrowseHandler{Inventory: gateway, Logger: logger},
		Purchase: &handler.PurchaseHandler{
			Inventory:  gateway,
			Visits:     purchase.NewVisits(cfg.VisitTTL),
			Handoffs:   handoffs,
			ServiceFee: model.Cents(cfg.ServiceFeeCents),
			Events:     events,
			Logger:     logger,
		},
		Confirmation: &handler.ConfirmationHandler{Handoffs: handoffs},
		JWTSecret:    cfg.JWTSecret,
		CatalogCache: catalogCache,
		SubmitLimit:  submitLimit,
	})

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port, "backend", cfg.GatewayBackend)
		srvErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openGateway builds the configured inventory backend.  The returned func
// releases its resources.
func openGateway(ctx context.Context, cfg config.Config) (inventory.Gateway, func(), error) {
	switch cfg.GatewayBackend {
	case config.BackendMySQL:
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return inventory.NewSQLGateway(db, model.Cents(cfg.ServiceFeeCents)), func() { closeDB(db) }, nil
	default:
		return inventory.NewHTTPGateway(cfg.InventoryBaseURL, nil, cfg.InventoryTimeout), func() {}, nil
	}
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("close database", "error", err)
	}
}
