package domain

import "strings"

// Comment is a note attached to exactly one Task.
type Comment struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	TaskID  int64  `json:"taskId"`
}

// Validate checks that the comment has content and a plausible parent.
func (c *Comment) Validate() error {
	if c.TaskID <= 0 {
		return NewValidationError("taskId", "Task ID must be positive", ErrInvalidID)
	}
	return ValidateCommentContent(c.Content)
}

// ValidateCommentContent rejects empty and whitespace-only comment text.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("content", "Content is required", ErrEmptyContent)
	}
	return nil
}
