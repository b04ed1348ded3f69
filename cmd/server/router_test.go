package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskapi/internal/api"
	"github.com/phrazzld/taskapi/internal/api/middleware"
	"github.com/phrazzld/taskapi/internal/api/shared"
	"github.com/phrazzld/taskapi/internal/config"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/platform/memory"
)

func newTestApp(t *testing.T, rateLimit config.RateLimitConfig) (*application, http.Handler) {
	t.Helper()

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database:  config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"},
		Cache:     config.CacheConfig{Backend: "memory"},
		RateLimit: rateLimit,
	}
	log, _ := logger.GetTestLogger(t)

	db, stores, err := setupAppDatabase(context.Background(), cfg.Database, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, err := newApplication(cfg, log, db, stores, memory.New(time.Minute))
	require.NoError(t, err)
	return app, app.setupRouter()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestTaskLifecycle(t *testing.T) {
	_, h := newTestApp(t, config.RateLimitConfig{})

	w := do(t, h, http.MethodPost, "/task", `{"title":"T","description":"D"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[api.TaskResponse](t, w)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	target := fmt.Sprintf("/task?id=%d", created.ID)

	w = do(t, h, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T", decode[api.TaskResponse](t, w).Title)

	w = do(t, h, http.MethodPut, target, `{"title":"T2","description":"D2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T2", decode[api.TaskResponse](t, w).Title)

	w = do(t, h, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T2", decode[api.TaskResponse](t, w).Title, "reads reflect the update")

	w = do(t, h, http.MethodDelete, target, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Task deleted successfully", decode[shared.MessageResponse](t, w).Message)

	w = do(t, h, http.MethodGet, target, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", decode[shared.ErrorResponse](t, w).Message)
}

func TestCommentLifecycle(t *testing.T) {
	_, h := newTestApp(t, config.RateLimitConfig{})

	w := do(t, h, http.MethodPost, "/task", `{"title":"T","description":"D"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[api.TaskResponse](t, w)

	w = do(t, h, http.MethodPost, fmt.Sprintf("/comments?taskId=%d&content=hi", task.ID), "")
	require.Equal(t, http.StatusCreated, w.Code)
	comment := decode[api.CommentResponse](t, w)
	assert.Equal(t, "hi", comment.Content)
	assert.Equal(t, task.ID, comment.TaskID)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/comments?taskId=%d", task.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []api.CommentResponse{comment}, decode[[]api.CommentResponse](t, w))

	w = do(t, h, http.MethodPut,
		fmt.Sprintf("/comments?taskId=%d&commentId=%d&content=edited", task.ID, comment.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "edited", decode[api.CommentResponse](t, w).Content)

	w = do(t, h, http.MethodDelete, fmt.Sprintf("/comments?taskId=%d&commentId=%d", task.ID, comment.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Comment deleted successfully", decode[shared.MessageResponse](t, w).Message)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/comments?taskId=%d", task.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodPost, "/comments?taskId=999&content=hi", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", decode[shared.ErrorResponse](t, w).Message)
}

func TestListTasksPopulatesCache(t *testing.T) {
	app, h := newTestApp(t, config.RateLimitConfig{})

	w := do(t, h, http.MethodGet, "/task/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, title := range []string{"A", "B"} {
		w = do(t, h, http.MethodPost, "/task", fmt.Sprintf(`{"title":%q,"description":"d"}`, title))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = do(t, h, http.MethodGet, "/task/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode[[]api.TaskResponse](t, w)
	require.Len(t, tasks, 2)
	assert.Equal(t, "A", tasks[0].Title)
	assert.Equal(t, "B", tasks[1].Title)

	roster := app.taskCache.Roster(context.Background())
	assert.Equal(t, []string{fmt.Sprint(tasks[0].ID), fmt.Sprint(tasks[1].ID)}, roster)
}

func TestRequestValidation(t *testing.T) {
	_, h := newTestApp(t, config.RateLimitConfig{})

	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		wantMessage string
	}{
		{"missing task id", http.MethodGet, "/task", "", "Task ID is required"},
		{"non-integer task id", http.MethodGet, "/task?id=abc", "", "Task ID must be an integer"},
		{"blank title", http.MethodPost, "/task", `{"title":"","description":"D"}`, "Validation failed"},
		{"malformed body", http.MethodPost, "/task", `not json`, "Invalid request body"},
		{"empty comment", http.MethodPost, "/comments?taskId=1&content=", "", "Validation failed"},
		{"non-integer comment id", http.MethodDelete, "/comments?taskId=1&commentId=x", "", "Comment ID must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMessage, decode[shared.ErrorResponse](t, w).Message)
		})
	}
}

func TestRateLimiting(t *testing.T) {
	_, h := newTestApp(t, config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute})

	for range 2 {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/task/tasks", "").Code)
	}

	w := do(t, h, http.MethodGet, "/task/tasks", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, middleware.RateLimitMessage, decode[shared.ErrorResponse](t, w).Message)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code, "health is not rate limited")
}

func TestHealth(t *testing.T) {
	_, h := newTestApp(t, config.RateLimitConfig{})

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
