package postgres

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

// PostgresCommentStore implements store.CommentStore on PostgreSQL.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.CommentStore = (*PostgresCommentStore)(nil)

// NewPostgresCommentStore creates a comment store over db. It panics if db is nil.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

// Create inserts a comment on taskID. A missing task surfaces as
// store.ErrInvalidEntity through the foreign key.
func (s *PostgresCommentStore) Create(ctx context.Context, taskID int64, content string) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	comment := &domain.Comment{TaskID: taskID, Content: content}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO comments (content, task_id) VALUES ($1, $2) RETURNING id`,
		content, taskID,
	).Scan(&comment.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during comment creation",
				slog.String("error", err.Error()),
				slog.Int64("task_id", taskID))
			return nil, fmt.Errorf("%w: task with ID %d not found", store.ErrInvalidEntity, taskID)
		}
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, store.NewStoreError("comment", "create", "failed to insert comment", MapError(err))
	}

	log.Debug("comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("task_id", taskID))
	return comment, nil
}

// GetByID returns the comment or store.ErrCommentNotFound.
func (s *PostgresCommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var c domain.Comment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, task_id FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.Content, &c.TaskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("comment not found", slog.Int64("comment_id", id))
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to get comment by ID",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return nil, store.NewStoreError("comment", "get", "failed to query comment", MapError(err))
	}
	return &c, nil
}

// ListByTask returns the comments of taskID ordered by id. The result is
// never nil.
func (s *PostgresCommentStore) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, task_id FROM comments WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, store.NewStoreError("comment", "list", "failed to query comments", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

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

// Update replaces the content of a comment.
func (s *PostgresCommentStore) Update(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var c domain.Comment
	err := s.db.QueryRowContext(ctx,
		`UPDATE comments SET content = $1 WHERE id = $2 RETURNING id, content, task_id`,
		content, id,
	).Scan(&c.ID, &c.Content, &c.TaskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to update comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return nil, store.NewStoreError("comment", "update", "failed to update comment", MapError(err))
	}

	log.Debug("comment updated", slog.Int64("comment_id", id))
	return &c, nil
}

// Delete removes a comment.
func (s *PostgresCommentStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return store.NewStoreError("comment", "delete", "failed to delete comment", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrCommentNotFound); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return store.NewStoreError("comment", "delete", "failed to check deleted rows", err)
	}

	log.Debug("comment deleted", slog.Int64("comment_id", id))
	return nil
}
