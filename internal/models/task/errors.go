package task

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID          = errors.New("id must be a positive integer")
	ErrEmptyTitle         = errors.New("title must be non-empty")
	ErrTitleTooLong       = errors.New("title must be 100 characters or less")
	ErrDescriptionTooLong = errors.New("description must be 500 characters or less")
	ErrInvalidPriority    = errors.New("priority must be one of HIGH, MEDIUM, or LOW")
	ErrEmptyTag           = errors.New("tags must be non-empty strings")
	ErrInvalidDate        = errors.New("due date must be in YYYY-MM-DD format")
)

// ValidationError сообщает, какое поле и какое правило нарушено.
// errors.Is(err, ErrTitleTooLong) и т.п. работают через Unwrap.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", v.Field, v.Reason)
}

func (v *ValidationError) Unwrap() error {
	return v.Err
}

func newValidationError(field string, rule error) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: rule.Error(),
		Err:    rule,
	}
}

// AsValidationError достаёт ValidationError из цепочки обёрток.
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
