package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrNotFound indicates a record was not found by the given identifier.
	ErrNotFound = errors.New("record not found")

	ErrAgentNotFound       = fmt.Errorf("agent %w", ErrNotFound)
	ErrAutomationNotFound  = fmt.Errorf("automation %w", ErrNotFound)
	ErrFAQNotFound         = fmt.Errorf("faq %w", ErrNotFound)
	ErrUpdateNotFound      = fmt.Errorf("update %w", ErrNotFound)
	ErrIntegrationNotFound = fmt.Errorf("integration %w", ErrNotFound)

	// ErrInvalidSortField indicates a list was requested with a sort field outside the allowlist.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrInvalidSortOrder indicates a sort order other than asc or desc.
	ErrInvalidSortOrder = errors.New("invalid sort order")

	// ErrUnsupportedProvider indicates a database URL with an unknown scheme.
	ErrUnsupportedProvider = errors.New("unsupported persistence provider")
)

// NotFoundFor returns the not-found sentinel of a collection.
func NotFoundFor(collection string) error {
	switch collection {
	case CollectionAgents:
		return ErrAgentNotFound
	case CollectionAutomations:
		return ErrAutomationNotFound
	case CollectionFAQs:
		return ErrFAQNotFound
	case CollectionUpdates:
		return ErrUpdateNotFound
	case CollectionIntegrations:
		return ErrIntegrationNotFound
	default:
		return ErrNotFound
	}
}

// RecordError wraps storage errors with the operation and record they concern.
type RecordError struct {
	Op         string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	Collection string
	ID         string
	Err        error
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s operation failed for %s: %v", e.Op, e.Collection, e.Err)
	}

	return fmt.Sprintf("%s operation failed for %s %s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for record errors.
func (e *RecordError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRecordError creates a new record error with context.
func NewRecordError(op, collection, id string, err error) *RecordError {
	return &RecordError{
		Op:         op,
		Collection: collection,
		ID:         id,
		Err:        err,
	}
}

// IsNotFound checks if an error indicates a record was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidSortField checks if an error indicates an invalid sort field.
func IsInvalidSortField(err error) bool {
	return errors.Is(err, ErrInvalidSortField)
}
