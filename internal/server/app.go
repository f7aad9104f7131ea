// Package server initializes and runs the vault server. It selects the
// storage backend, runs migrations, wires the scan pipeline and the HTTP
// API, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dmitrijs2005/filevault/internal/filex"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/api"
	"github.com/dmitrijs2005/filevault/internal/server/blob"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/scan"
	"github.com/dmitrijs2005/filevault/internal/server/vault"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	vaultService *vault.Service
	orchestrator *scan.Orchestrator
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	app := &App{config: cfg, logger: logger}

	rm, db, err := initStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	app.db = db

	if db != nil {
		if err := rm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	var signer vault.ContentSigner
	if cfg.S3BaseEndpoint != "" {
		signer = blob.NewPresigner(cfg)
	}

	app.vaultService = vault.NewService(db, rm, cfg, signer, logger)

	var classifier scan.Classifier
	if cfg.ClassifierEndpoint != "" {
		classifier = scan.NewHTTPClassifier(cfg.ClassifierEndpoint, cfg.ClassifierModel, cfg.ClassifierTimeout)
	} else {
		classifier = scan.NewHeuristicClassifier()
	}
	app.orchestrator = scan.NewOrchestrator(ctx, classifier, app.vaultService, logger)
	app.vaultService.SetScheduler(app.orchestrator)

	return app, nil
}

func initStorage(cfg *config.Config) (repomanager.RepositoryManager, *sql.DB, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return repomanager.NewPostgresRepositoryManager(), db, nil
	case config.BackendSQLite:
		dir, err := filex.EnsureSubdDir("data")
		if err != nil {
			return nil, nil, err
		}
		db, err := sql.Open("sqlite", filepath.Join(dir, cfg.DatabaseDSN))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return repomanager.NewSQLiteRepositoryManager(), db, nil
	case config.BackendMemory:
		return repomanager.NewInMemoryRepositoryManager(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP, "backend", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	handler := api.NewHandler(app.vaultService, app.logger)
	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: api.NewRouter(handler, []byte(app.config.SecretKey), app.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server error", "error", err.Error())
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")

		shutdownCtx, release := context.WithTimeout(context.Background(), shutdownTimeout)
		defer release()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err.Error())
		}

		// let in-flight scans land their verdicts before closing the store
		app.orchestrator.Wait()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}

	app.logger.Info(ctx, "App stopped")
}
