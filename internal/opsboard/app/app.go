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

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	httpapi "github.com/aussiebroadwan/opsboard/internal/opsboard/http"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/opsboard/pkg/cryptox"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
	"github.com/aussiebroadwan/opsboard/pkg/tracex"
)

const serviceName = "opsboard"

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the dashboard services to the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db            store.Store
	keys          signingKeys
	resolver      *access.Resolver
	traceShutdown func(context.Context) error

	invitationService   *service.InvitationService
	sessionService      *service.SessionService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds an Application. The access policy is validated before anything
// touches the database.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initAccess(); err != nil {
		return nil, err
	}

	shutdown, err := tracex.Setup(context.Background(), cfg.Tracing, serviceName, BuildVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.traceShutdown = shutdown

	if err := cryptox.LoadPepperFile(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := initSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keys = keys

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("opsboard starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains the HTTP server, then stops housekeeping, tracing and the
// database in that order.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down opsboard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.traceShutdown(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("opsboard stopped")
	return nil
}

// initAccess loads the access matrix from cfg.PolicyFile, or the built-in one.
func (app *Application) initAccess() error {
	matrix := access.DefaultMatrix()
	if app.cfg.PolicyFile != "" {
		m, err := access.LoadPolicyFile(app.cfg.PolicyFile)
		if err != nil {
			return fmt.Errorf("failed to load access policy: %w", err)
		}
		matrix = m
		app.logger.Info("access policy loaded", "path", app.cfg.PolicyFile)
	}

	if _, ok := matrix.Catalog().GetRole(app.cfg.BootstrapRole); !ok {
		return fmt.Errorf("bootstrap role %q is not in the role catalog", app.cfg.BootstrapRole)
	}

	app.resolver = access.NewResolver(matrix)
	return nil
}

// initDatabase opens the SQLite store and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

func (app *Application) initServices() {
	provisioner := &service.Provisioner{
		Identities:  app.db.Identities(),
		Profiles:    app.db.Profiles(),
		CallTimeout: app.cfg.CallTimeout,
	}

	app.invitationService = &service.InvitationService{
		Store:             app.db,
		Access:            app.resolver,
		Provisioner:       provisioner,
		TTL:               app.cfg.InvitationTTL,
		MinPasswordLength: app.cfg.MinPasswordLength,
		BulkConcurrency:   app.cfg.BulkConcurrency,
		AdminLevel:        app.cfg.AdminLevel,
		ClaimTimeout:      app.cfg.ClaimTimeout,
	}

	app.sessionService = &service.SessionService{
		Store:    app.db,
		Signer:   app.keys.signer,
		Issuer:   app.cfg.Issuer,
		Audience: app.cfg.Audience,
		TTL:      app.cfg.SessionTTL,
	}

	app.bootstrapService = &service.BootstrapService{
		Store:             app.db,
		Provisioner:       provisioner,
		Token:             app.cfg.BootstrapToken,
		Role:              app.cfg.BootstrapRole,
		MinPasswordLength: app.cfg.MinPasswordLength,
	}
	if app.cfg.BootstrapToken == "" {
		app.logger.Info("bootstrap disabled: OPSBOARD_BOOTSTRAP_TOKEN not set")
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.invitationService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.keys,
		app.keys.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Access = app.resolver
	router.InvitationService = app.invitationService
	router.SessionService = app.sessionService
	router.BootstrapService = app.bootstrapService
	router.LoginPath = app.cfg.LoginPath
	router.StrictLimit = app.cfg.StrictLimit.WithDefaults(httpx.StrictLimit)
	router.ModerateLimit = app.cfg.ModerateLimit.WithDefaults(httpx.ModerateLimit)
	router.LenientLimit = app.cfg.LenientLimit.WithDefaults(httpx.LenientLimit)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
