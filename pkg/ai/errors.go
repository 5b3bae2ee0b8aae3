package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks requests rejected before any backend call.
	ErrValidation = errors.New("invalid generation request")
	// ErrBackendUnavailable marks a single backend failure; the router falls back on it.
	ErrBackendUnavailable = errors.New("ai backend unavailable")
	// ErrServiceUnavailable is returned when both backends failed. It is terminal.
	ErrServiceUnavailable = errors.New("ai service unavailable")
	// ErrDataParse marks a response that is not in the expected structured format.
	ErrDataParse = errors.New("ai response not in expected format")
)

// BackendError records which tier failed and why.
type BackendError struct {
	Tier  Tier
	Model string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend (%s): %v", e.Tier, e.Model, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is makes every BackendError match ErrBackendUnavailable.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// ServiceError is returned when the primary and the fallback backend both failed.
type ServiceError struct {
	Primary  error
	Fallback error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%v: primary: %v; fallback: %v", ErrServiceUnavailable, e.Primary, e.Fallback)
}

func (e *ServiceError) Unwrap() []error {
	return []error{ErrServiceUnavailable, e.Primary, e.Fallback}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
