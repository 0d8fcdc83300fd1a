// Package apperr carries the error taxonomy shared by the appointment core:
// validation failures abort with no partial write, conflicts report an
// illegal transition or double effect, not-found maps to a missing record,
// and transient errors wrap store/network failures that are safe to retry.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindNotFound
	KindTransient
)

// Error is a categorised service error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Transient wraps a store or network failure the caller may retry.
func Transient(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindTransient, Message: fmt.Sprintf(format, args...), Err: err}
}

func kindOf(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsValidation(err error) bool { return kindOf(err, KindValidation) }
func IsConflict(err error) bool   { return kindOf(err, KindConflict) }
func IsNotFound(err error) bool   { return kindOf(err, KindNotFound) }
func IsTransient(err error) bool  { return kindOf(err, KindTransient) }
