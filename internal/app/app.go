// Package app wires configuration, logging, storage, token signing and the
// HTTP router into a runnable server.
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

	httpapi "github.com/screfinery/screfinery/internal/http"
	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/internal/store/drivers/sqlite"
	"github.com/screfinery/screfinery/pkg/cryptox"
	"github.com/screfinery/screfinery/pkg/jwtx"
	"github.com/screfinery/screfinery/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the server with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.HS256

	authService          *service.AuthService
	userService          *service.UserService
	friendshipService    *service.FriendshipService
	oreService           *service.OreService
	stationService       *service.StationService
	methodService        *service.MethodService
	miningSessionService *service.MiningSessionService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "screfinery",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitTokenSigner(app.cfg)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("screfinery starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the HTTP server and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down screfinery...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("screfinery stopped")
	return nil
}

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

func (app *Application) initServices() error {
	app.authService = &service.AuthService{
		Store:         app.db,
		Signer:        app.signer,
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessTTL,
		DefaultScopes: app.cfg.DefaultScopes,
	}

	if app.cfg.GoogleClientID != "" {
		verifier, err := service.NewGoogleVerifier(context.Background(), app.cfg.GoogleClientID)
		if err != nil {
			return fmt.Errorf("failed to initialize google verifier: %w", err)
		}
		app.authService.Google = verifier
		app.logger.Info("google sign-in enabled")
	} else {
		app.logger.Info("google sign-in disabled (no client id configured)")
	}

	app.userService = &service.UserService{Store: app.db, DefaultScopes: app.cfg.DefaultScopes}
	app.friendshipService = &service.FriendshipService{Store: app.db}
	app.oreService = &service.OreService{Store: app.db}
	app.stationService = &service.StationService{Store: app.db}
	app.methodService = &service.MethodService{Store: app.db}
	app.miningSessionService = &service.MiningSessionService{Store: app.db}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.cfg.DefaultScopes,
		app.cfg.CORSOrigins,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.FriendshipService = app.friendshipService
	router.OreService = app.oreService
	router.StationService = app.stationService
	router.MethodService = app.methodService
	router.MiningSessionService = app.miningSessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
