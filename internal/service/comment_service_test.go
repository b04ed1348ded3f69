package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/store"
	"github.com/phrazzld/taskapi/internal/store/mocks"
)

// MockTaskService is a testify mock of TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	args := m.Called(ctx, title, description)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, id int64, title, description string) (*domain.Task, error) {
	args := m.Called(ctx, id, title, description)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newCommentFixture(t *testing.T) (CommentService, *MockTaskService, *mocks.MockCommentStore) {
	t.Helper()
	tasks := &MockTaskService{}
	comments := mocks.NewMockCommentStore(gomock.NewController(t))
	svc, err := NewCommentService(tasks, comments, nil)
	require.NoError(t, err)
	t.Cleanup(func() { tasks.AssertExpectations(t) })
	return svc, tasks, comments
}

var parent = &domain.Task{ID: 1, Title: "T", Description: "D"}

func TestNewCommentService(t *testing.T) {
	_, err := NewCommentService(nil, mocks.NewMockCommentStore(gomock.NewController(t)), nil)
	assert.Error(t, err)
	_, err = NewCommentService(&MockTaskService{}, nil, nil)
	assert.Error(t, err)
}

func TestCommentServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().Create(gomock.Any(), int64(1), "hi").
			Return(&domain.Comment{ID: 3, Content: "hi", TaskID: 1}, nil)

		got, err := svc.Create(ctx, 1, "hi")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)
	})

	t.Run("missing task never reaches the store", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(2)).Return(nil, ErrTaskNotFound)
		comments.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Create(ctx, 2, "hi")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("task deleted concurrently", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().Create(gomock.Any(), int64(1), "hi").
			Return(nil, errors.Join(store.ErrInvalidEntity, errors.New("fk")))

		_, err := svc.Create(ctx, 1, "hi")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestCommentServiceListByTask(t *testing.T) {
	ctx := context.Background()

	t.Run("empty list is not an error", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().ListByTask(gomock.Any(), int64(1)).Return(nil, nil)

		got, err := svc.ListByTask(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().ListByTask(gomock.Any(), int64(1)).Return(nil, errors.New("timeout"))

		_, err := svc.ListByTask(ctx, 1)
		var svcErr *CommentServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "list_comments", svcErr.Operation)
	})
}

func TestCommentServiceUpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update own comment", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.Comment{ID: 3, Content: "a", TaskID: 1}, nil)
		comments.EXPECT().Update(gomock.Any(), int64(3), "b").Return(&domain.Comment{ID: 3, Content: "b", TaskID: 1}, nil)

		got, err := svc.Update(ctx, 1, 3, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", got.Content)
	})

	t.Run("comment of another task is not found", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.Comment{ID: 3, Content: "a", TaskID: 2}, nil).Times(2)
		comments.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		comments.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Update(ctx, 1, 3, "b")
		assert.ErrorIs(t, err, ErrCommentNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, 1, 3), ErrCommentNotFound)
	})

	t.Run("missing comment", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().GetByID(gomock.Any(), int64(4)).Return(nil, store.ErrCommentNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, 1, 4), ErrCommentNotFound)
	})

	t.Run("delete own comment", func(t *testing.T) {
		svc, tasks, comments := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(1)).Return(parent, nil)
		comments.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.Comment{ID: 3, Content: "a", TaskID: 1}, nil)
		comments.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

		assert.NoError(t, svc.Delete(ctx, 1, 3))
	})

	t.Run("missing task", func(t *testing.T) {
		svc, tasks, _ := newCommentFixture(t)
		tasks.On("Get", mock.Anything, int64(8)).Return(nil, ErrTaskNotFound)

		_, err := svc.Update(ctx, 8, 3, "b")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestCommentServiceRejectsBlankContent(t *testing.T) {
	svc, _, _ := newCommentFixture(t)

	_, err := svc.Create(context.Background(), 1, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Update(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}
