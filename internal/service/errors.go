package service

import (
	"errors"
	"fmt"
	"strconv"

	"todoConsole/internal/models/task"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(id int) *BusinessError {
	return NewBusinessError(CodeNotFound, fmt.Sprintf("Task with ID %d not found", id),
		ToDetail("resource", "task"),
		ToDetail("id", strconv.Itoa(id)),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation, fmt.Sprintf("Invalid value for field '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

// FromValidation переводит ошибку сущности в BusinessError.
// Остальные ошибки возвращаются как есть.
func FromValidation(err error) error {
	validationErr, ok := task.AsValidationError(err)
	if !ok {
		return err
	}
	busErr := NewValidationError(validationErr.Field, validationErr.Reason)
	busErr.Err = err
	return busErr
}

func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}
