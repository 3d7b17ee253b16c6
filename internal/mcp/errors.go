package mcp

import (
	"errors"
	"fmt"

	"github.com/maerl/reporting/internal/domain/errs"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Store messages are kept
// as the store reported them.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	apiErr := &APIError{Message: err.Error()}

	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		apiErr.Code = "INVALID_ARGUMENT"
		apiErr.Details = map[string]string{"field": ve.Field, "kind": string(ve.Kind)}
		apiErr.RecoveryHint = "Fix the named field and retry"
	case errors.Is(err, errs.ErrNotFound):
		apiErr.Code = "NOT_FOUND"
		apiErr.RecoveryHint = "Call list_projects for valid slugs and ids"
	case errs.KindOf(err) == errs.StoreFailure:
		apiErr.Code = "STORE_ERROR"
	default:
		apiErr.Code = "INTERNAL"
	}
	return apiErr
}

// toolError converts err for return from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return nil
}
