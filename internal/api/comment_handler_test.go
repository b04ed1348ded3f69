package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/service"
)

func newCommentHandler() *CommentHandler {
	return NewCommentHandler(&MockCommentService{
		CreateFn: func(_ context.Context, taskID int64, content string) (*domain.Comment, error) {
			if taskID == 404 {
				return nil, service.ErrTaskNotFound
			}
			return &domain.Comment{ID: 7, Content: content, TaskID: taskID}, nil
		},
		ListByTaskFn: func(_ context.Context, taskID int64) ([]*domain.Comment, error) {
			switch taskID {
			case 404:
				return nil, service.ErrTaskNotFound
			case 500:
				return nil, &service.CommentServiceError{Operation: "list_comments", Err: errors.New("boom")}
			}
			return []*domain.Comment{}, nil
		},
		UpdateFn: func(_ context.Context, taskID, commentID int64, content string) (*domain.Comment, error) {
			if commentID == 404 {
				return nil, service.ErrCommentNotFound
			}
			return &domain.Comment{ID: commentID, Content: content, TaskID: taskID}, nil
		},
		DeleteFn: func(_ context.Context, _, commentID int64) error {
			if commentID == 404 {
				return service.ErrCommentNotFound
			}
			return nil
		},
	}, nil)
}

func TestCommentHandler(t *testing.T) {
	h := newCommentHandler()

	tests := []struct {
		name        string
		method      string
		target      string
		handler     http.HandlerFunc
		wantStatus  int
		wantMessage string
		wantBody    string
	}{
		{"create", http.MethodPost, "/comments?taskId=1&content=hi", h.CreateComment, http.StatusCreated, "",
			`{"id":7,"content":"hi","taskId":1}`},
		{"create on missing task", http.MethodPost, "/comments?taskId=404&content=hi", h.CreateComment, http.StatusNotFound, "Task not found", ""},
		{"create without content", http.MethodPost, "/comments?taskId=1", h.CreateComment, http.StatusBadRequest, "Validation failed", ""},
		{"create with bad task id", http.MethodPost, "/comments?taskId=x&content=hi", h.CreateComment, http.StatusBadRequest, "Task ID must be an integer", ""},
		{"list empty", http.MethodGet, "/comments?taskId=1", h.ListComments, http.StatusOK, "", `[]`},
		{"list on missing task", http.MethodGet, "/comments?taskId=404", h.ListComments, http.StatusNotFound, "Task not found", ""},
		{"list failure", http.MethodGet, "/comments?taskId=500", h.ListComments, http.StatusInternalServerError, "Error fetching comments", ""},
		{"update", http.MethodPut, "/comments?taskId=1&commentId=3&content=new", h.UpdateComment, http.StatusOK, "",
			`{"id":3,"content":"new","taskId":1}`},
		{"update missing comment", http.MethodPut, "/comments?taskId=1&commentId=404&content=new", h.UpdateComment, http.StatusNotFound, "Comment not found", ""},
		{"update bad comment id", http.MethodPut, "/comments?taskId=1&commentId=abc&content=new", h.UpdateComment, http.StatusBadRequest, "Comment ID must be an integer", ""},
		{"delete", http.MethodDelete, "/comments?taskId=1&commentId=3", h.DeleteComment, http.StatusOK, "",
			`{"message":"Comment deleted successfully"}`},
		{"delete missing comment id", http.MethodDelete, "/comments?taskId=1", h.DeleteComment, http.StatusBadRequest, "Comment ID is required", ""},
		{"delete missing comment", http.MethodDelete, "/comments?taskId=1&commentId=404", h.DeleteComment, http.StatusNotFound, "Comment not found", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, decodeError(t, w).Message)
			}
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
