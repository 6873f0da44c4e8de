package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/memo-analyzer/internal/pipeline"
	"github.com/jonathan/memo-analyzer/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotEnabled indicates an optional feature that is not configured
type ErrNotEnabled struct {
	Feature string
}

func (e *ErrNotEnabled) Error() string {
	return fmt.Sprintf("%s is not enabled", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notEnabledErr *ErrNotEnabled
		transportErr  *pipeline.TransportError
		serviceErr    *pipeline.ServiceError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notEnabledErr):
		return http.StatusNotFound
	case errors.Is(err, session.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, session.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.As(err, &serviceErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// runStatus maps a run error to the status reported in the complete event
func runStatus(err error) string {
	switch {
	case err == nil:
		return RunStatusCompleted
	case errors.Is(err, session.ErrDeadlineExceeded):
		return RunStatusTimeout
	default:
		return RunStatusFailed
	}
}
