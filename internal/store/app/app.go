package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fixthevuln/backend/internal/store/assets"
	"github.com/fixthevuln/backend/internal/store/email"
	httpapi "github.com/fixthevuln/backend/internal/store/http"
	"github.com/fixthevuln/backend/internal/store/payment"
	"github.com/fixthevuln/backend/internal/store/quizpool"
	"github.com/fixthevuln/backend/internal/store/service"
	"github.com/fixthevuln/backend/internal/store/store"
	"github.com/fixthevuln/backend/internal/store/store/drivers/sqlite"
	"github.com/fixthevuln/backend/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the store service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	assets assets.Store

	// Services
	checkoutService     *service.CheckoutService
	fulfillmentService  *service.FulfillmentService
	webhookService      *service.WebhookService
	quizService         *service.QuizService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "store",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initAssets()

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("store service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down store service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("store service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initAssets() {
	if app.cfg.AssetBaseURL != "" {
		app.assets = &assets.HTTPStore{
			BaseURL: app.cfg.AssetBaseURL,
			Token:   app.cfg.AssetToken,
		}
		app.logger.Info("serving planner files from bucket", "base_url", app.cfg.AssetBaseURL)
		return
	}
	app.assets = &assets.DirStore{Root: app.cfg.AssetDir}
	app.logger.Info("serving planner files from directory", "dir", app.cfg.AssetDir)
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	provider := payment.NewStripeProvider(payment.StripeConfig{
		SecretKey: app.cfg.StripeSecretKey,
		Currency:  app.cfg.Currency,
	})

	app.checkoutService = &service.CheckoutService{
		Catalog:    &service.CatalogService{},
		Provider:   provider,
		SuccessURL: app.cfg.SuccessURL,
		CancelURL:  app.cfg.CancelURL,
	}

	app.fulfillmentService = &service.FulfillmentService{
		Provider:        provider,
		Secret:          []byte(app.cfg.DownloadTokenSecret),
		DownloadBaseURL: app.cfg.DownloadBaseURL,
	}

	var sender email.Sender
	if app.cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(app.cfg.ResendAPIKey, app.cfg.EmailFrom)
	} else {
		sender = email.NopSender{}
		app.logger.Warn("no email API key configured, fulfillment emails disabled")
	}

	app.webhookService = &service.WebhookService{
		Signing:       []byte(app.cfg.StripeWebhookSecret),
		Fulfillment:   app.fulfillmentService,
		Events:        app.db.WebhookEvents(),
		Orders:        app.db.Orders(),
		Sender:        sender,
		NotifyAddress: app.cfg.NotifyAddress,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	pool, err := quizpool.Load(ctx, app.cfg.QuizPoolURL, nil)
	if err != nil {
		return fmt.Errorf("failed to load quiz pool: %w", err)
	}
	app.logger.Info("quiz pool loaded", "questions", len(pool.Questions), "domains", len(pool.Domains))
	app.quizService = &service.QuizService{Pool: pool}

	app.housekeepingService = service.NewHousekeepingService(
		app.db.WebhookEvents(),
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.CORSOrigins,
		app.db,
		app.assets,
		app.logger,
	)

	// Wire services to router
	router.CheckoutService = app.checkoutService
	router.FulfillmentService = app.fulfillmentService
	router.WebhookService = app.webhookService
	router.QuizService = app.quizService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
