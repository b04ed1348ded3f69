package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrInvalidRequestBody marks a body that could not be decoded as JSON.
var ErrInvalidRequestBody = errors.New("invalid request body")

// Validate is the shared validator instance. Field names in errors are the
// JSON names, and the "notblank" tag rejects whitespace-only strings.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return v
}

// DecodeJSON decodes the request body into v. Failures wrap
// ErrInvalidRequestBody.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrInvalidRequestBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequestBody, err)
	}
	return nil
}

// ValidateRequest validates v with the shared validator.
func ValidateRequest(v any) error {
	return Validate.Struct(v)
}

// FieldErrors converts validator errors into client-facing field errors.
// It returns nil when err is not a validator.ValidationErrors.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label := fe.StructField()
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
