package store

import (
	"context"

	"github.com/phrazzld/taskapi/internal/domain"
)

// TaskStore defines the interface for task persistence.
//
//go:generate mockgen -source=task.go -destination=mocks/mock_task_store.go -package=mocks
type TaskStore interface {
	// Create inserts a task and returns it with the store-assigned ID.
	Create(ctx context.Context, title, description string) (*domain.Task, error)

	// GetByID retrieves a task without its comments.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update replaces title and description and returns the stored row.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, title, description string) (*domain.Task, error)

	// Delete removes a task. Its comments are removed with it.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// Count returns the authoritative number of tasks.
	Count(ctx context.Context) (int, error)

	// ListWithComments returns every task ordered by ID. Each task carries a
	// non-nil Comments slice ordered by comment ID.
	ListWithComments(ctx context.Context) ([]*domain.Task, error)
}
