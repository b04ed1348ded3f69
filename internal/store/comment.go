package store

import (
	"context"

	"github.com/phrazzld/taskapi/internal/domain"
)

// CommentStore defines the interface for comment persistence.
//
//go:generate mockgen -source=comment.go -destination=mocks/mock_comment_store.go -package=mocks
type CommentStore interface {
	// Create inserts a comment for the given task.
	// Returns ErrInvalidEntity if the task does not exist.
	Create(ctx context.Context, taskID int64, content string) (*domain.Comment, error)

	// GetByID retrieves a comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)

	// ListByTask returns the task's comments ordered by ID. The result is
	// never nil.
	ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error)

	// Update replaces a comment's content.
	// Returns ErrCommentNotFound if the comment does not exist.
	Update(ctx context.Context, id int64, content string) (*domain.Comment, error)

	// Delete removes a comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id int64) error
}
