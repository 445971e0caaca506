package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/events"
	httpapi "github.com/aussiebroadwan/qrpay/internal/qrpay/http"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/service"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/postgres"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite"
	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the QR payment service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	hub    *events.Hub
	broker *events.AMQPPublisher // Optional: only when AMQP_URL is set

	// Services
	qrTokenService      *service.QRTokenService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "qrpay-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeResources()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("qrpay service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeResources()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down qrpay service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Websocket connections are hijacked and not tracked by Shutdown
	app.hub.Close()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("qrpay service stopped")
	return nil
}

func (app *Application) closeResources() error {
	if app.broker != nil {
		if err := app.broker.Close(); err != nil {
			app.logger.Error("error closing broker connection", "error", err)
		}
	}
	if app.hub != nil {
		app.hub.Close()
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initServices builds the event publishers and business logic services
func (app *Application) initServices() error {
	app.hub = events.NewHub(app.logger)

	publishers := events.Fanout{app.hub}
	if app.cfg.AMQPURL != "" {
		broker, err := events.NewAMQPPublisher(events.AMQPConfig{
			URL:      app.cfg.AMQPURL,
			Exchange: app.cfg.AMQPExchange,
		}, app.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		app.broker = broker
		publishers = append(publishers, broker)
		app.logger.Info("amqp publisher enabled", "exchange", app.cfg.AMQPExchange)
	}

	svc, err := service.NewQRTokenService(service.QRTokenConfig{
		Passphrase:           app.cfg.EncryptionKey,
		TokenTTL:             app.cfg.TokenTTL,
		Topic:                app.cfg.BroadcastTopic,
		BurnOnInvalidPayload: app.cfg.BurnOnInvalidPayload,
	}, app.db, publishers)
	if err != nil {
		return fmt.Errorf("failed to initialize qr token service: %w", err)
	}
	app.qrTokenService = svc

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.StaleTokenRetention,
	)

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	cors := httpx.DefaultCORS
	cors.AllowedOrigins = app.cfg.CORSAllowedOrigins

	router := httpapi.NewRouter(BuildVersion, app.db, cors, app.logger)

	router.QRTokenService = app.qrTokenService
	router.Hub = app.hub
	router.DefaultTopic = app.cfg.BroadcastTopic
	router.GenerateLimit = app.cfg.GenerateLimit
	router.VerifyLimit = app.cfg.VerifyLimit
	router.TrustedProxies = app.cfg.TrustedProxies
	if app.broker != nil {
		router.Broker = app.broker
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
