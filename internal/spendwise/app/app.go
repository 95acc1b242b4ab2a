// Package app assembles the service: configuration, store, services, HTTP
// surface and lifecycle.
package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"

	httpapi "github.com/spendwise-app/spendwise/internal/spendwise/http"
	"github.com/spendwise-app/spendwise/internal/spendwise/mail"
	"github.com/spendwise-app/spendwise/internal/spendwise/service"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
	"github.com/spendwise-app/spendwise/internal/spendwise/store/drivers/sqlite"
	"github.com/spendwise-app/spendwise/pkg/cryptox"
	"github.com/spendwise-app/spendwise/pkg/httpx"
	"github.com/spendwise-app/spendwise/pkg/jwtx"
	"github.com/spendwise-app/spendwise/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	issuer = "spendwise"
)

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	identityService     *service.IdentityService
	sessionService      *service.SessionService
	recordService       *service.RecordService
	statsService        *service.StatsService
	housekeepingService *service.HousekeepingService

	server      *http.Server
	router      *httpapi.Router
	limiterStop chan struct{}
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "spendwise",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		limiterStop: make(chan struct{}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("spendwise starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			if sErr := app.Shutdown(); sErr != nil {
				app.logger.Error("cleanup after server failure", "error", sErr)
			}
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
	app.logger.Info("shutting down spendwise...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	close(app.limiterStop)

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("spendwise stopped")
	return nil
}

// initDatabase opens the sqlite store and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	secret := []byte(app.cfg.JWTSecret)
	if len(secret) == 0 {
		// No configured secret: sessions will not survive a restart.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("app: cannot generate session secret: " + err.Error())
		}
		app.logger.Warn("jwt_secret not configured, using an ephemeral secret")
	}

	ttl := app.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	app.sessionService = &service.SessionService{
		Codec: jwtx.NewCodec(secret, issuer, ttl),
	}

	app.identityService = &service.IdentityService{
		Store: app.db,
		Mail: mail.NewSMTPSender(mail.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			User:     app.cfg.SMTPUser,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.SMTPFrom,
		}),
	}

	app.recordService = &service.RecordService{Store: app.db}
	app.statsService = &service.StatsService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		httpx.NewRateLimiter(app.limiterStop),
		app.logger,
	)

	router.Identity = app.identityService
	router.Sessions = app.sessionService
	router.Records = app.recordService
	router.Stats = app.statsService
	if app.cfg.CookieName != "" {
		router.CookieName = app.cfg.CookieName
	}
	router.CookieSecure = app.cfg.CookieSecure
	router.ApplyRoutes()

	app.router = router

	// The SPA sends the session cookie cross-origin, so CORS must allow
	// credentials and name the origins explicitly.
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 3 * time.Second,
	}
}
