package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/store"
)

// CommentStore implements store.CommentStore on SQLite.
type CommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.CommentStore = (*CommentStore)(nil)

// NewCommentStore creates a comment store over db. It panics if db is nil.
func NewCommentStore(db store.DBTX, logger *slog.Logger) *CommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentStore{db: db, logger: logger.With(slog.String("component", "comment_store"))}
}

func (s *CommentStore) Create(ctx context.Context, taskID int64, content string) (*domain.Comment, error) {
	c := &domain.Comment{TaskID: taskID, Content: content}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO comments (content, task_id) VALUES (?, ?) RETURNING id`,
		content, taskID,
	).Scan(&c.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: task with ID %d not found", store.ErrInvalidEntity, taskID)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create comment",
			slog.String("error", err.Error()), slog.Int64("task_id", taskID))
		return nil, store.NewStoreError("comment", "create", "failed to insert comment", MapError(err))
	}
	return c, nil
}

func (s *CommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, task_id FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.Content, &c.TaskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCommentNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("comment", "get", "failed to query comment", MapError(err))
	}
	return &c, nil
}

func (s *CommentStore) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, task_id FROM comments WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, store.NewStoreError("comment", "list", "failed to query comments", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	comments := []*domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.TaskID); err != nil {
			return nil, store.NewStoreError("comment", "list", "failed to scan comment", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("comment", "list", "failed to read comments", MapError(err))
	}
	return comments, nil
}

func (s *CommentStore) Update(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	var c domain.Comment
	err := s.db.QueryRowContext(ctx,
		`UPDATE comments SET content = ? WHERE id = ? RETURNING id, content, task_id`,
		content, id,
	).Scan(&c.ID, &c.Content, &c.TaskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCommentNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("comment", "update", "failed to update comment", MapError(err))
	}
	return &c, nil
}

func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return store.NewStoreError("comment", "delete", "failed to delete comment", MapError(err))
	}
	return checkRowsAffected(result, store.ErrCommentNotFound)
}
