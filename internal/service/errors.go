package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskapi/internal/store"
)

var (
	// ErrTaskNotFound indicates that the task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCommentNotFound indicates that the comment does not exist or belongs
	// to a different task than the one addressed.
	ErrCommentNotFound = errors.New("comment not found")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError wraps err, returning known not-found conditions as
// ErrTaskNotFound without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	return &TaskServiceError{Operation: operation, Message: message, Err: err}
}

// CommentServiceError wraps errors from the comment service with context.
type CommentServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *CommentServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("comment service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("comment service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CommentServiceError) Unwrap() error {
	return e.Err
}

// NewCommentServiceError wraps err. Not-found conditions and task sentinels
// pass through unwrapped.
func NewCommentServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrCommentNotFound), errors.Is(err, store.ErrCommentNotFound):
		return ErrCommentNotFound
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		// the parent task vanished between the existence check and the insert
		return ErrTaskNotFound
	}
	return &CommentServiceError{Operation: operation, Message: message, Err: err}
}
