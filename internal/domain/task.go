package domain

import "strings"

// Task is a unit of work tracked by the API. The ID is assigned by the
// persistent store on creation and is never reused by the caller.
//
// Comments is only populated when the task was loaded together with its
// comments (the bulk listing rebuild path). A nil slice means "not loaded"
// and is omitted from JSON, while an empty slice means "loaded, none".
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Comments    []Comment `json:"comments,omitzero"`
}

// Validate checks the fields a caller is allowed to set.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "Title is required", ErrEmptyContent)
	}
	if strings.TrimSpace(t.Description) == "" {
		return NewValidationError("description", "Description is required", ErrEmptyContent)
	}
	return nil
}
