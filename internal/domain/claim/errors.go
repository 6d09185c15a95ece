package claim

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a rejected claim attempt. All kinds are expected,
// user-facing outcomes rather than system failures.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindNotAvailable     Kind = "NOT_AVAILABLE"
	KindNotEligible      Kind = "NOT_ELIGIBLE"
	KindWindowClosed     Kind = "WINDOW_CLOSED"
	KindCapacityExceeded Kind = "CAPACITY_EXCEEDED"
	KindDuplicateClaim   Kind = "DUPLICATE_CLAIM"
)

// Error is the typed outcome of a failed claim attempt. Message is safe to
// render to the actor; RetryAfter (when non-zero) tells the actor how long
// until a retry can succeed.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: %s (retry after %s)", e.Kind, e.Message, e.RetryAfter.Round(time.Minute))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError constructs a typed claim error.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NewRetryableError constructs a WINDOW_CLOSED-style error carrying a retry hint.
func NewRetryableError(kind Kind, msg string, retryAfter time.Duration) *Error {
	return &Error{Kind: kind, Message: msg, RetryAfter: retryAfter}
}

// AsError unwraps err into a *Error if it is (or wraps) one.
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
