package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/taskapi/internal/config"
	"github.com/phrazzld/taskapi/internal/platform/postgres"
	"github.com/phrazzld/taskapi/internal/platform/sqlite"
	"github.com/phrazzld/taskapi/internal/store"
)

type storeSet struct {
	tasks    store.TaskStore
	comments store.CommentStore
}

// setupAppDatabase opens the configured database and returns the matching
// store implementations.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, storeSet, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.Driver {
	case "postgres":
		db, err := sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, storeSet{}, fmt.Errorf("failed to open database connection: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, storeSet{}, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("database connection established", slog.String("driver", cfg.Driver))
		return db, storeSet{
			tasks:    postgres.NewPostgresTaskStore(db, logger),
			comments: postgres.NewPostgresCommentStore(db, logger),
		}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, storeSet{}, err
		}
		logger.Info("database connection established", slog.String("driver", cfg.Driver))
		return db, storeSet{
			tasks:    sqlite.NewTaskStore(db, logger),
			comments: sqlite.NewCommentStore(db, logger),
		}, nil

	default:
		return nil, storeSet{}, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
