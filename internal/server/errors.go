package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/okane-data/tickbar/internal/domain"
)

// apiError is the structured error body returned by every endpoint.
type apiError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *apiError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *apiError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, message string) *apiError {
	return &apiError{StatusCode: status, Code: code, Message: message}
}

// fromDomainError maps aggregator sentinels to caller-input errors; anything
// else is a 500.
func fromDomainError(err error) *apiError {
	switch {
	case errors.Is(err, domain.ErrInvalidTimestamp):
		return newAPIError(http.StatusBadRequest, "INVALID_TIMESTAMP", err.Error())
	case errors.Is(err, domain.ErrInvalidInterval):
		return newAPIError(http.StatusBadRequest, "INVALID_INTERVAL", err.Error())
	case errors.Is(err, domain.ErrInvalidRange):
		return newAPIError(http.StatusBadRequest, "INVALID_RANGE", err.Error())
	default:
		return newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "aggregation failed")
	}
}
