package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/taskapi/internal/domain"
)

// queryID parses the integer query parameter param. label names it in
// messages, e.g. "Task ID".
func queryID(r *http.Request, param, label string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(param))
	if raw == "" {
		return 0, domain.NewValidationError(param, label+" is required", domain.ErrInvalidID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(param, label+" must be an integer", domain.ErrInvalidID)
	}
	return id, nil
}
