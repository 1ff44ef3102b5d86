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

	httpapi "github.com/cloudnotes/cloudnotes/internal/http"
	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/internal/store"
	"github.com/cloudnotes/cloudnotes/internal/store/drivers/memory"
	"github.com/cloudnotes/cloudnotes/internal/store/drivers/sqlite"
	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/cloudnotes/cloudnotes/pkg/mailx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the store, services and HTTP server together and owns
// their lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer
	mailer mailx.Sender

	otpService          *service.OtpService
	userService         *service.UserService
	notesService        *service.NotesService
	federationService   *service.FederationService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "cloudnotes",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.signer = &jwtx.Signer{
		Secret: []byte(cfg.JWTSecret),
		Issuer: "cloudnotes",
	}
	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("cloudnotes starting",
		"port", app.cfg.Port,
		"driver", app.cfg.StoreDriver,
		"version", BuildVersion,
	)

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

// Shutdown drains in-flight requests, stops the housekeeping worker and
// closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down...")

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
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("cloudnotes stopped")
	return nil
}

func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "memory":
		app.db = memory.NewStore()
		app.logger.Info("using in-memory store; data does not survive restarts")
		return nil
	case "sqlite":
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
		app.logger.Info("database migrations applied", "file", app.cfg.DatabaseFile)
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
}

func (app *Application) initMailer() {
	smtp := mailx.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	}
	if smtp.Enabled() {
		app.mailer = mailx.NewMailer(smtp)
		app.logger.Info("smtp mailer configured", "host", smtp.Host)
		return
	}
	// Without a relay, codes go to the log. Useful locally, useless (and
	// loud) in production.
	app.mailer = &mailx.LogSender{Logger: app.logger}
	app.logger.Warn("no smtp relay configured; verification codes are logged")
}

func (app *Application) initServices() {
	app.otpService = &service.OtpService{
		Store:  app.db,
		Mailer: app.mailer,
		Logger: app.logger,
	}
	app.userService = &service.UserService{Store: app.db}
	app.notesService = &service.NotesService{Store: app.db}
	app.federationService = &service.FederationService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		app.cfg.Prod(),
		app.cfg.ClientOrigin,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.OtpService = app.otpService
	router.UserService = app.userService
	router.NotesService = app.notesService
	router.FederationService = app.federationService
	router.GoogleOAuth = app.googleOAuthConfig()
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// googleOAuthConfig returns nil when federation is not configured; the
// google endpoints then answer 501.
func (app *Application) googleOAuthConfig() *oauth2.Config {
	if app.cfg.GoogleClientID == "" || app.cfg.GoogleClientSecret == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     app.cfg.GoogleClientID,
		ClientSecret: app.cfg.GoogleClientSecret,
		RedirectURL:  app.cfg.ServerURL + "/auth/google/callback",
		Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
		Endpoint:     google.Endpoint,
	}
}
