package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskapi/internal/cache"
	"github.com/phrazzld/taskapi/internal/config"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/service"
	"github.com/phrazzld/taskapi/internal/store"
)

const cacheProbeTimeout = 2 * time.Second

// application holds the shared dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore    store.TaskStore
	commentStore store.CommentStore
	taskCache    *cache.TaskCache

	taskService    service.TaskService
	commentService service.CommentService
}

// newApplication wires services on top of an open database and cache backend.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, stores storeSet, backend cache.Backend) (*application, error) {
	app := &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		taskStore:    stores.tasks,
		commentStore: stores.comments,
		taskCache:    cache.NewTaskCache(backend, cfg.Cache.TTL(), logger),
	}

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.taskCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.commentService, err = service.NewCommentService(app.taskService, app.commentStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment service: %w", err)
	}

	return app, nil
}

// probeCache checks cache connectivity once at startup. The service keeps
// working without a cache, so failure is only logged.
func (app *application) probeCache(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, cacheProbeTimeout)
	defer cancel()

	if err := app.taskCache.Ping(ctx); err != nil {
		app.logger.Warn("cache unreachable, continuing with store reads only",
			slog.String("backend", app.config.Cache.Backend),
			slog.String("error", err.Error()))
		return
	}
	app.logger.Info("cache connection verified", slog.String("backend", app.config.Cache.Backend))
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}

// serve loads configuration, builds the application and runs the HTTP
// server until ctx is cancelled or a shutdown signal arrives.
func serve(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("cache_backend", cfg.Cache.Backend))

	db, stores, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	backend, err := setupCacheBackend(cfg.Cache)
	if err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, log, db, stores, backend)
	if err != nil {
		_ = db.Close()
		return err
	}
	app.probeCache(ctx)

	return app.startHTTPServer(ctx, app.setupRouter())
}
