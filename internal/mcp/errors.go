package mcp

import (
	"errors"
	"fmt"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Check ID spelling"}
	case errors.Is(err, domain.ErrSelfReference):
		return &APIError{Code: "SELF_REFERENCE", Message: err.Error(), RecoveryHint: "Use two distinct cards"}
	case errors.Is(err, domain.ErrCycleDetected):
		return &APIError{Code: "CYCLE_DETECTED", Message: err.Error(), RecoveryHint: "Remove a conflicting dependency first"}
	case errors.Is(err, domain.ErrValidation):
		return &APIError{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: err.Error(), RecoveryHint: "Reload and retry, or force save"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
