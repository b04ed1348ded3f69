package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/store"
)

// TaskStore implements store.TaskStore on SQLite.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a task store over db. It panics if db is nil.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{db: db, logger: logger.With(slog.String("component", "task_store"))}
}

func (s *TaskStore) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	task := &domain.Task{Title: title, Description: description}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description) VALUES (?, ?) RETURNING id`,
		title, description,
	).Scan(&task.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}
	return task, nil
}

func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var task domain.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description FROM tasks WHERE id = ?`, id,
	).Scan(&task.ID, &task.Title, &task.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task by ID",
			slog.String("error", err.Error()), slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}
	return &task, nil
}

func (s *TaskStore) Update(ctx context.Context, id int64, title, description string) (*domain.Task, error) {
	task := &domain.Task{}
	err := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET title = ?, description = ? WHERE id = ? RETURNING id, title, description`,
		title, description, id,
	).Scan(&task.ID, &task.Title, &task.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("error", err.Error()), slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}
	return task, nil
}

func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()), slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}
	return checkRowsAffected(result, store.ErrTaskNotFound)
}

func (s *TaskStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, store.NewStoreError("task", "count", "failed to count tasks", MapError(err))
	}
	return n, nil
}

// ListWithComments loads all tasks, then all comments, and attaches each
// comment to its task.
func (s *TaskStore) ListWithComments(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks := []*domain.Task{}
	byID := map[int64]*domain.Task{}

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description FROM tasks ORDER BY id`)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	for rows.Next() {
		t := &domain.Task{Comments: []domain.Comment{}}
		if err := rows.Scan(&t.ID, &t.Title, &t.Description); err != nil {
			_ = rows.Close()
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, t)
		byID[t.ID] = t
	}
	if err := rows.Close(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to close task rows", err)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to read tasks", MapError(err))
	}

	crows, err := s.db.QueryContext(ctx, `SELECT id, content, task_id FROM comments ORDER BY id`)
	if err != nil {
		log.Error("failed to list comments", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query comments", MapError(err))
	}
	defer func() { _ = crows.Close() }()

	for crows.Next() {
		var c domain.Comment
		if err := crows.Scan(&c.ID, &c.Content, &c.TaskID); err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan comment", err)
		}
		if t, ok := byID[c.TaskID]; ok {
			t.Comments = append(t.Comments, c)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to read comments", MapError(err))
	}

	return tasks, nil
}
