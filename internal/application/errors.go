package application

import (
	"errors"
	"fmt"

	"kifunav/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidCursor = domain.ErrInvalidCursor
	ErrNoIndex       = errors.New("position index not available")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// RecordError represents a failure to load or index one record file
type RecordError struct {
	Path   string
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("record %s: %s", e.Path, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
