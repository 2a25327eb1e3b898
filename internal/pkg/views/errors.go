package views

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller mistakes such as a bad where expression.
var ErrInvalidInput = errors.New("invalid input")

// LoadError is what a page shows when a required resource failed. Calling
// the loader again is the retry.
type LoadError struct {
	Page    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Page, e.Message)
}

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether running the loader again may succeed.
func IsRetryable(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}
