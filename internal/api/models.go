package api

import "github.com/phrazzld/taskapi/internal/domain"

// TaskRequest is the body of POST /task and PUT /task.
type TaskRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

// CommentContent carries the content query parameter of comment writes.
type CommentContent struct {
	Content string `json:"content" validate:"notblank"`
}

// CommentResponse is the JSON shape of a comment.
type CommentResponse struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	TaskID  int64  `json:"taskId"`
}

// TaskResponse is the JSON shape of a task. Comments appear only when the
// task was loaded together with them.
type TaskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Comments    []CommentResponse `json:"comments,omitzero"`
}

func commentToResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{ID: c.ID, Content: c.Content, TaskID: c.TaskID}
}

func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{ID: t.ID, Title: t.Title, Description: t.Description}
	if t.Comments != nil {
		resp.Comments = make([]CommentResponse, 0, len(t.Comments))
		for i := range t.Comments {
			resp.Comments = append(resp.Comments, commentToResponse(&t.Comments[i]))
		}
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func commentsToResponse(comments []*domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentToResponse(c))
	}
	return out
}
