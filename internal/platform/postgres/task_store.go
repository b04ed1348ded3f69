package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/store"
)

// PostgresTaskStore implements store.TaskStore on PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a task store over db. It panics if db is nil.
// If logger is nil, slog.Default() is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Create inserts a task and returns it with the id assigned by the database.
func (s *PostgresTaskStore) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task := &domain.Task{Title: title, Description: description}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description) VALUES ($1, $2) RETURNING id`,
		title, description,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	return task, nil
}

// GetByID returns the task without its comments, or store.ErrTaskNotFound.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task domain.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description FROM tasks WHERE id = $1`, id,
	).Scan(&task.ID, &task.Title, &task.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}

	return &task, nil
}

// Update overwrites title and description of an existing task.
func (s *PostgresTaskStore) Update(ctx context.Context, id int64, title, description string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task := &domain.Task{}
	err := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET title = $1, description = $2 WHERE id = $3 RETURNING id, title, description`,
		title, description, id,
	).Scan(&task.ID, &task.Title, &task.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	log.Debug("task updated", slog.Int64("task_id", id))
	return task, nil
}

// Delete removes a task; its comments go with it through ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found for delete", slog.Int64("task_id", id))
			return err
		}
		return store.NewStoreError("task", "delete", "failed to check deleted rows", err)
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// Count returns the number of task rows.
func (s *PostgresTaskStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "count", "failed to count tasks", MapError(err))
	}
	return n, nil
}

// ListWithComments returns every task ordered by id, each carrying its
// comments ordered by id. Tasks without comments get an empty slice.
func (s *PostgresTaskStore) ListWithComments(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.description, c.id, c.content
		FROM tasks t
		LEFT JOIN comments c ON c.task_id = t.id
		ORDER BY t.id, c.id`)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	tasks, err := scanTasksWithComments(rows)
	if err != nil {
		log.Error("failed to scan tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to read tasks", MapError(err))
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// scanTasksWithComments folds joined task/comment rows, ordered by task id,
// into tasks.
func scanTasksWithComments(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := []*domain.Task{}
	var current *domain.Task

	for rows.Next() {
		var (
			t         domain.Task
			commentID sql.NullInt64
			content   sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &commentID, &content); err != nil {
			return nil, err
		}

		if current == nil || current.ID != t.ID {
			t.Comments = []domain.Comment{}
			current = &t
			tasks = append(tasks, current)
		}
		if commentID.Valid {
			current.Comments = append(current.Comments, domain.Comment{
				ID:      commentID.Int64,
				Content: content.String,
				TaskID:  current.ID,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
