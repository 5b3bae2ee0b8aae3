package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist for the organization.
	ErrNotFound = errors.New("not found")
	// ErrBudgetExceeded is returned when budget enforcement is on and a limit is spent.
	ErrBudgetExceeded = errors.New("ai budget exceeded")
	// ErrInvalidInput marks a request rejected by a service before any work.
	ErrInvalidInput = errors.New("invalid input")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
