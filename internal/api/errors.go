package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskapi/internal/api/shared"
	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/service"
	"github.com/phrazzld/taskapi/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrInvalidRequestBody),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that leaks no
// internal detail.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, service.ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, service.ErrCommentNotFound), errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"
	case errors.Is(err, shared.ErrInvalidRequestBody):
		return "Invalid request body"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err. defaultMsg replaces the
// generic message on 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	if fields := shared.FieldErrors(err); fields != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", fields, err)
		return
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		shared.RespondWithValidationErrors(w, r, ve.Message,
			[]shared.FieldError{{Field: ve.Field, Message: ve.Message}}, err)
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
