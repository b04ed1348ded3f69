package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/store"
)

// CommentService provides comment operations. Every call first resolves the
// parent task through TaskService.Get; comments themselves are never cached.
type CommentService interface {
	Create(ctx context.Context, taskID int64, content string) (*domain.Comment, error)
	ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error)
	Update(ctx context.Context, taskID, commentID int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, taskID, commentID int64) error
}

type commentServiceImpl struct {
	tasks    TaskService
	comments store.CommentStore
	logger   *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(tasks TaskService, comments store.CommentStore, logger *slog.Logger) (CommentService, error) {
	if tasks == nil {
		return nil, &CommentServiceError{Operation: "create_service", Message: "task service cannot be nil"}
	}
	if comments == nil {
		return nil, &CommentServiceError{Operation: "create_service", Message: "comment store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &commentServiceImpl{
		tasks:    tasks,
		comments: comments,
		logger:   logger.With("component", "comment_service"),
	}, nil
}

func (s *commentServiceImpl) Create(ctx context.Context, taskID int64, content string) (*domain.Comment, error) {
	if err := domain.ValidateCommentContent(content); err != nil {
		return nil, err
	}
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, taskID, content)
	if err != nil {
		return nil, NewCommentServiceError("create_comment", "failed to save comment", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("task_id", taskID))
	return comment, nil
}

func (s *commentServiceImpl) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, NewCommentServiceError("list_comments", "failed to load comments", err)
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}

func (s *commentServiceImpl) Update(ctx context.Context, taskID, commentID int64, content string) (*domain.Comment, error) {
	if err := domain.ValidateCommentContent(content); err != nil {
		return nil, err
	}
	if err := s.ownedComment(ctx, taskID, commentID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Update(ctx, commentID, content)
	if err != nil {
		return nil, NewCommentServiceError("update_comment", "failed to save comment", err)
	}
	return comment, nil
}

func (s *commentServiceImpl) Delete(ctx context.Context, taskID, commentID int64) error {
	if err := s.ownedComment(ctx, taskID, commentID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return NewCommentServiceError("delete_comment", "failed to delete comment", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("comment deleted",
		slog.Int64("comment_id", commentID),
		slog.Int64("task_id", taskID))
	return nil
}

// ownedComment checks that the task exists and the comment belongs to it.
func (s *commentServiceImpl) ownedComment(ctx context.Context, taskID, commentID int64) error {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return NewCommentServiceError("get_comment", "failed to load comment", err)
	}
	if comment.TaskID != taskID {
		logger.FromContextOrDefault(ctx, s.logger).Debug("comment belongs to another task",
			slog.Int64("comment_id", commentID),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_task_id", comment.TaskID))
		return ErrCommentNotFound
	}
	return nil
}
