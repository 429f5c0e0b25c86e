package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, caller-facing classification of a failure.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION_ERROR"
	KindInsufficientSeats ErrorKind = "INSUFFICIENT_SEATS"
	KindSeatTaken         ErrorKind = "SEAT_TAKEN"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindConflict          ErrorKind = "CONFLICT"
	KindStorage           ErrorKind = "STORAGE_ERROR"
	KindAuth              ErrorKind = "AUTH_ERROR"
)

// Error carries a kind plus a human-readable reason. Two errors match under
// errors.Is when their kinds are equal.
type Error struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation, Reason: "invalid input"}
	ErrInsufficientSeats = &Error{Kind: KindInsufficientSeats, Reason: "not enough seats on the selected flight"}
	ErrSeatTaken         = &Error{Kind: KindSeatTaken, Reason: "seat already taken"}
	ErrNotFound          = &Error{Kind: KindNotFound, Reason: "not found"}
	ErrConflict          = &Error{Kind: KindConflict, Reason: "conflict"}
	ErrStorage           = &Error{Kind: KindStorage, Reason: "storage failure"}
	ErrAuth              = &Error{Kind: KindAuth, Reason: "authentication failed"}
)

func NewError(kind ErrorKind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

// Storage wraps a driver error. A nil err yields nil so call sites can wrap
// unconditionally.
func Storage(reason string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStorage, Reason: reason, Err: err}
}

// KindOf reports the kind of err. Anything unclassified is a storage fault.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}

// ReasonOf returns the human-readable reason of err.
func ReasonOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return err.Error()
}
