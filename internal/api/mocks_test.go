package api

import (
	"context"

	"github.com/phrazzld/taskapi/internal/domain"
)

// MockTaskService is a function-field mock of service.TaskService.
type MockTaskService struct {
	GetFn    func(ctx context.Context, id int64) (*domain.Task, error)
	ListFn   func(ctx context.Context) ([]*domain.Task, error)
	CreateFn func(ctx context.Context, title, description string) (*domain.Task, error)
	UpdateFn func(ctx context.Context, id int64, title, description string) (*domain.Task, error)
	DeleteFn func(ctx context.Context, id int64) error
}

func (m *MockTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return m.GetFn(ctx, id)
}

func (m *MockTaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return m.ListFn(ctx)
}

func (m *MockTaskService) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	return m.CreateFn(ctx, title, description)
}

func (m *MockTaskService) Update(ctx context.Context, id int64, title, description string) (*domain.Task, error) {
	return m.UpdateFn(ctx, id, title, description)
}

func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	return m.DeleteFn(ctx, id)
}

// MockCommentService is a function-field mock of service.CommentService.
type MockCommentService struct {
	CreateFn     func(ctx context.Context, taskID int64, content string) (*domain.Comment, error)
	ListByTaskFn func(ctx context.Context, taskID int64) ([]*domain.Comment, error)
	UpdateFn     func(ctx context.Context, taskID, commentID int64, content string) (*domain.Comment, error)
	DeleteFn     func(ctx context.Context, taskID, commentID int64) error
}

func (m *MockCommentService) Create(ctx context.Context, taskID int64, content string) (*domain.Comment, error) {
	return m.CreateFn(ctx, taskID, content)
}

func (m *MockCommentService) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	return m.ListByTaskFn(ctx, taskID)
}

func (m *MockCommentService) Update(ctx context.Context, taskID, commentID int64, content string) (*domain.Comment, error) {
	return m.UpdateFn(ctx, taskID, commentID, content)
}

func (m *MockCommentService) Delete(ctx context.Context, taskID, commentID int64) error {
	return m.DeleteFn(ctx, taskID, commentID)
}
