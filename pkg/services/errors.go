// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrEmptyOwnerID     = errors.New("owner ID cannot be empty")
	ErrUnknownPlatform  = errors.New("unknown platform")
	ErrUnknownAgent     = errors.New("referenced agent does not exist")

	// Business Logic Conflicts (409 Conflict).
	ErrActivationRejected = errors.New("automation cannot be active")
	ErrAlreadyPublished   = errors.New("update is already published")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrEmptyOwnerID) ||
		errors.Is(err, ErrUnknownPlatform) ||
		errors.Is(err, ErrUnknownAgent)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrActivationRejected) ||
		errors.Is(err, ErrAlreadyPublished)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewConflictError creates a conflict error; cause, when set, stays reachable via errors.Is.
func NewConflictError(op, code string, sentinel, cause error) *ServiceError {
	err := sentinel
	if cause != nil {
		err = errors.Join(sentinel, cause)
	}

	return &ServiceError{
		Op:   op,
		Code: code,
		Err:  err,
	}
}

// ValidationErrors returns the field errors behind a failed record validation.
func ValidationErrors(err error) (validator.ValidationErrors, bool) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		return fieldErrors, true
	}

	return nil, false
}
