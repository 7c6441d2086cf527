/*
errors.go - Error types for records and stores

PURPOSE:
  Sentinel errors for errors.Is() checks plus structured errors that carry
  context. Stores and the planner return these; the API maps them to HTTP
  status codes.

NOTE:
  The engine package defines no errors at all. Anything that would make the
  engine misbehave is rejected here first.

SEE ALSO:
  - validate.go: Produces ValidationError
  - api/handlers.go: writeStoreError maps errors to status codes
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a record ID does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when adding a record whose ID is taken.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrInvalidRecord is returned when a record fails validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidFrequency is returned for an unknown cash-flow frequency.
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError reports the first invalid field of a record.
type ValidationError struct {
	Kind    string
	Field   string
	Message string
	cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Kind, e.Field, e.Message)
}

// Unwrap exposes both ErrInvalidRecord and the specific cause, if any.
func (e *ValidationError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvalidRecord, e.cause}
	}
	return []error{ErrInvalidRecord}
}

// NewValidationError reports an invalid field of any input, not just stored
// records. The API uses it for calculator parameters.
func NewValidationError(kind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

func invalid(kind, field, message string) *ValidationError {
	return NewValidationError(kind, field, message)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRecord) ||
		errors.Is(err, ErrInvalidFrequency)
}

// IsConflict returns true if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}
