package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the entity exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState means the operation is not legal in the current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyClosed is returned when closing a CLOSED trade.
	// It also matches ErrInvalidState.
	ErrAlreadyClosed error = alreadyClosedError{}
)

type alreadyClosedError struct{}

func (alreadyClosedError) Error() string { return "trade already closed" }

func (alreadyClosedError) Is(target error) bool { return target == ErrInvalidState }

// ValidationError reports one malformed or out-of-range input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// Kind names the error kind of err for transports and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrAlreadyClosed):
		return "already_closed"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}
