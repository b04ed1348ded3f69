package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskapi/internal/store"
)

func TestNewTaskServiceError(t *testing.T) {
	assert.NoError(t, NewTaskServiceError("op", "msg", nil))
	assert.Same(t, ErrTaskNotFound, NewTaskServiceError("op", "msg", store.ErrTaskNotFound))
	assert.Same(t, ErrTaskNotFound, NewTaskServiceError("op", "msg", fmt.Errorf("wrapped: %w", ErrTaskNotFound)))

	cause := errors.New("boom")
	err := NewTaskServiceError("create_task", "failed to save task", cause)
	assert.EqualError(t, err, "task service create_task failed: failed to save task: boom")
	assert.ErrorIs(t, err, cause)
}

func TestNewCommentServiceError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"store comment not found", store.ErrCommentNotFound, ErrCommentNotFound},
		{"store task not found", store.ErrTaskNotFound, ErrTaskNotFound},
		{"foreign key", fmt.Errorf("%w: task with ID 3 not found", store.ErrInvalidEntity), ErrTaskNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, NewCommentServiceError("op", "msg", tt.in))
		})
	}

	err := NewCommentServiceError("delete_comment", "failed", errors.New("boom"))
	var svcErr *CommentServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "comment service delete_comment failed: failed: boom", err.Error())
}
