package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskapi/internal/api/shared"
	"github.com/phrazzld/taskapi/internal/service"
)

// CommentHandler serves the /comments routes. Every parameter arrives in
// the query string: taskId, commentId and content.
type CommentHandler struct {
	comments service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a CommentHandler. It panics if comments is nil.
func NewCommentHandler(comments service.CommentService, logger *slog.Logger) *CommentHandler {
	if comments == nil {
		panic("comment service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentHandler{comments: comments, logger: logger.With(slog.String("component", "comment_handler"))}
}

func contentParam(r *http.Request) (string, error) {
	req := CommentContent{Content: r.URL.Query().Get("content")}
	if err := shared.ValidateRequest(&req); err != nil {
		return "", err
	}
	return req.Content, nil
}

// CreateComment handles POST /comments?taskId=&content=.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryID(r, "taskId", "Task ID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	content, err := contentParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comment, err := h.comments.Create(r.Context(), taskID, content)
	if err != nil {
		HandleAPIError(w, r, err, "Error creating comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, commentToResponse(comment))
}

// ListComments handles GET /comments?taskId=.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryID(r, "taskId", "Task ID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comments, err := h.comments.ListByTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Error fetching comments")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, commentsToResponse(comments))
}

// UpdateComment handles PUT /comments?taskId=&commentId=&content=.
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryID(r, "taskId", "Task ID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	commentID, err := queryID(r, "commentId", "Comment ID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	content, err := contentParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comment, err := h.comments.Update(r.Context(), taskID, commentID, content)
	if err != nil {
		HandleAPIError(w, r, err, "Error updating comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, commentToResponse(comment))
}

// DeleteComment handles DELETE /comments?taskId=&commentId=.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryID(r, "taskId", "Task ID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	commentID, err := queryID(r, "commentId", "Comment ID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.comments.Delete(r.Context(), taskID, commentID); err != nil {
		HandleAPIError(w, r, err, "Error deleting comment")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Comment deleted successfully")
}
