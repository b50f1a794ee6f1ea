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

	"github.com/aussiebroadwan/gate/internal/gate/channels"
	httpapi "github.com/aussiebroadwan/gate/internal/gate/http"
	"github.com/aussiebroadwan/gate/internal/gate/service"
	"github.com/aussiebroadwan/gate/internal/gate/shield"
	"github.com/aussiebroadwan/gate/internal/gate/store"
	"github.com/aussiebroadwan/gate/internal/gate/store/drivers/postgres"
	"github.com/aussiebroadwan/gate/internal/gate/store/drivers/redis"
	"github.com/aussiebroadwan/gate/internal/gate/store/drivers/sqlite"
	"github.com/aussiebroadwan/gate/pkg/cryptox"
	"github.com/aussiebroadwan/gate/pkg/eventbus"
	"github.com/aussiebroadwan/gate/pkg/jwtx"
	"github.com/aussiebroadwan/gate/pkg/paramstore"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gate service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	sealer *cryptox.Sealer
	events eventbus.Publisher

	// Caller authentication, nil when AuthMode is off
	keys     *jwtx.KeySet
	fetcher  *jwtx.Fetcher
	verifier jwtx.Verifier

	// Services
	vaultService        *service.VaultService
	resumeService       *service.ResumeService
	gateway             *service.Gateway
	shield              *shield.Shield
	housekeepingService *service.HousekeepingService // nil unless ShieldIdleTTL > 0

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// Options carries collaborators that tests replace.
type Options struct {
	// Params serves GATE_MASTER_KEY_SSM_PARAM. Nil uses the default AWS chain.
	Params paramstore.Getter

	// Courier delivers messaging actions. Nil logs deliveries without sending.
	Courier service.Courier
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	return NewWithOptions(cfg, Options{})
}

func NewWithOptions(cfg Config, opts Options) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	sealer, err := InitSealer(ctx, cfg, opts.Params, app.logger)
	if err != nil {
		return nil, err
	}
	app.sealer = sealer

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initAuth(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initEvents(); err != nil {
		app.stopAuth()
		_ = app.db.Close()
		return nil, err
	}

	app.initServices(opts.Courier)
	app.initHTTP()

	return app, nil
}

// Handler returns the HTTP handler served by Run.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("gate service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"resume_backend", app.cfg.ResumeBackend,
		"auth_mode", app.cfg.AuthMode,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	app.logger.Info("shutting down gate service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}
	app.stopAuth()

	if err := app.events.Close(); err != nil {
		app.logger.Error("error closing event publisher", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gate service stopped")
	return nil
}

// initDatabase opens the configured driver, applies migrations and, for
// the redis backend, moves resume tokens onto redis.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		base    store.Store
		migrate func() error
	)

	switch app.cfg.StoreDriver {
	case DriverPostgres:
		db, err := postgres.NewStore(ctx, app.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		base, migrate = db, db.ApplyMigrations
	default:
		db, err := sqlite.NewStore(app.cfg.DatabaseFile)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		base, migrate = db, db.ApplyMigrations
	}

	if err := migrate(); err != nil {
		_ = base.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)

	if app.cfg.ResumeBackend != ResumeBackendRedis {
		app.db = base
		return nil
	}

	tokens, err := redis.Dial(ctx, redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	if err != nil {
		_ = base.Close()
		return fmt.Errorf("failed to connect resume token backend: %w", err)
	}
	app.logger.Info("resume tokens stored in redis", "addr", app.cfg.RedisAddr)

	app.db = store.WithResumeTokens(base, tokens)
	return nil
}

// initAuth loads the JWKS used to verify callers. A failed first fetch is
// logged and left to the refresh loop; readyz reports until keys arrive.
func (app *Application) initAuth(ctx context.Context) error {
	if app.cfg.AuthMode != AuthModeJWT {
		app.logger.Warn("caller authentication disabled, user_id is taken from requests")
		return nil
	}

	app.keys = jwtx.NewKeySet()
	app.fetcher = jwtx.NewFetcher(app.cfg.JWKSURL, app.keys, app.logger)

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.fetcher.Refresh(fetchCtx); err != nil {
		app.logger.Warn("initial jwks fetch failed", "url", app.cfg.JWKSURL, "error", err)
	}
	app.fetcher.Start(app.cfg.JWKSRefresh)

	app.verifier = jwtx.NewVerifierEdDSA(app.keys, app.cfg.JWTIssuer, app.cfg.JWTAudience)
	app.logger.Info("caller authentication enabled",
		"jwks_url", app.cfg.JWKSURL,
		"refresh", app.cfg.JWKSRefresh,
	)
	return nil
}

func (app *Application) stopAuth() {
	if app.fetcher != nil {
		app.fetcher.Stop()
	}
}

func (app *Application) initEvents() error {
	if len(app.cfg.KafkaBrokers) == 0 {
		app.events = eventbus.Nop{}
		return nil
	}

	pub, err := eventbus.NewKafkaPublisher(eventbus.KafkaConfig{
		Brokers: app.cfg.KafkaBrokers,
		Topic:   app.cfg.KafkaTopic,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	app.events = pub
	app.logger.Info("threat events published to kafka", "topic", app.cfg.KafkaTopic)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices(courier service.Courier) {
	if courier == nil {
		courier = service.LogCourier{Logger: app.logger}
	}

	catalog := channels.Default()

	app.vaultService = &service.VaultService{Store: app.db, Sealer: app.sealer}
	app.resumeService = &service.ResumeService{Store: app.db}

	registry := service.NewRegistry()
	registry.MustRegister(service.MessagingActions(courier)...)

	app.gateway = &service.Gateway{
		Vault:    app.vaultService,
		Tokens:   app.resumeService,
		Catalog:  catalog,
		Registry: registry,
	}

	app.shield = shield.New()
	if app.cfg.ShieldIdleTTL > 0 {
		app.housekeepingService = service.NewHousekeepingService(
			app.shield,
			app.logger,
			app.cfg.HousekeepingInterval,
			app.cfg.ShieldIdleTTL,
		)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		app.keys,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Gateway = app.gateway
	router.Vault = app.vaultService
	router.Catalog = app.gateway.Catalog
	router.Shield = app.shield
	router.Events = app.events
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
