// Package server initializes and runs the investigation backend: it opens
// the relational and graph databases, runs migrations, bootstraps the first
// admin account, and serves the HTTP API until shutdown.
package server

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

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/netinvest/server/internal/logging"
	"github.com/netinvest/server/internal/server/auth"
	"github.com/netinvest/server/internal/server/config"
	"github.com/netinvest/server/internal/server/graph"
	"github.com/netinvest/server/internal/server/httpapi"
	"github.com/netinvest/server/internal/server/models"
	"github.com/netinvest/server/internal/server/repositories/repomanager"
	"github.com/netinvest/server/internal/server/services"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	runner  *graph.Neo4jRunner
	handler *httpapi.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	if err := bootstrapAdminUser(ctx, db, rm, cfg, logger); err != nil {
		return nil, fmt.Errorf("admin bootstrap error: %w", err)
	}

	runner, err := graph.NewNeo4jRunner(cfg)
	if err != nil {
		return nil, fmt.Errorf("graph init error: %w", err)
	}
	// a down graph database degrades graph endpoints but should not stop
	// auth from serving
	if err := runner.VerifyConnectivity(ctx); err != nil {
		logger.Warn(ctx, "graph database unreachable", "uri", cfg.Neo4jURI, "error", err.Error())
	} else {
		logger.Info(ctx, "graph database connected", "uri", cfg.Neo4jURI)
	}

	signer, err := auth.NewTokenSigner([]byte(cfg.SecretKey), cfg.SigningAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("signer init error: %w", err)
	}

	handler := httpapi.NewHandler(
		logger,
		cfg,
		services.NewSessionService(db, rm, signer, cfg),
		services.NewIdentityService(db, rm, signer),
		services.NewFlagService(db, rm),
		graph.NewService(runner, cfg),
		runner,
	)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		runner:  runner,
		handler: handler,
	}, nil
}

// bootstrapAdminUser creates the first admin account when the users table
// is empty. Existing deployments are left untouched.
func bootstrapAdminUser(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) error {
	repo := rm.Users(db)

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info(ctx, "users already exist, skipping admin bootstrap")
		return nil
	}

	hash, err := auth.HashPassword(cfg.FirstAdminPassword)
	if err != nil {
		return err
	}
	if _, err := repo.Create(ctx, &models.User{
		Username:     cfg.FirstAdminUser,
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      true,
	}); err != nil {
		return err
	}

	logger.Info(ctx, "created initial admin user", "username", cfg.FirstAdminUser)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until the context is canceled or a termination
// signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	server := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "forced shutdown", "error", err.Error())
	}
	if err := app.runner.Close(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "error closing graph driver", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "error closing database", "error", err.Error())
	}

	app.logger.Info(shutdownCtx, "server stopped")
	return nil
}
