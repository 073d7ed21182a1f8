package service

import (
	"errors"
	"fmt"
)

// ErrInsufficientData marks symbols with too little history to analyze. It is
// recoverable at batch level: the symbol is skipped and counted, never fatal.
var ErrInsufficientData = errors.New("insufficient data")

// ValidationError rejects out-of-range inputs. Not retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
