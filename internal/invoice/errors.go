package invoice

import (
	"errors"
	"fmt"
)

var (
	// ErrNilInvoice is returned when an operation is handed no invoice.
	ErrNilInvoice = errors.New("invoice is nil")

	// ErrInvalidInvoice is returned when an invoice fails input validation.
	ErrInvalidInvoice = errors.New("invalid invoice")

	// ErrInvariantViolated is returned when the derived totals of a calculated
	// invoice do not agree with each other.
	ErrInvariantViolated = errors.New("invoice totals are inconsistent")
)

// ValidationError describes one rejected invoice field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is makes every ValidationError match ErrInvalidInvoice.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInvoice
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ReconciliationError collects the invariant checks a calculated invoice failed.
type ReconciliationError struct {
	PublicID int
	Warnings []string
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("invoice %d: %d inconsistent totals: %v", e.PublicID, len(e.Warnings), e.Warnings)
}

// Unwrap returns ErrInvariantViolated.
func (e *ReconciliationError) Unwrap() error {
	return ErrInvariantViolated
}
