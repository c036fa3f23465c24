package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. The structured types below unwrap
// to these so callers can branch on category without knowing the concrete
// type.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrPolicyViolation = errors.New("policy violation")
)

// ValidationError reports missing or invalid input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports a state collision, e.g. two callers racing for the
// last available unit of an item.
type ConflictError struct {
	Resource string
	ID       int32
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Resource, e.ID, e.Message)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError reports a missing rental, item, or customer.
type NotFoundError struct {
	Resource string
	ID       int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PolicyViolationError reports an attempt to advance a guarded workflow step
// without satisfying its guard.
type PolicyViolationError struct {
	Message string
}

func (e *PolicyViolationError) Error() string { return e.Message }

func (e *PolicyViolationError) Unwrap() error { return ErrPolicyViolation }

func IsValidation(err error) bool      { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool        { return errors.Is(err, ErrConflict) }
func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsPolicyViolation(err error) bool { return errors.Is(err, ErrPolicyViolation) }
