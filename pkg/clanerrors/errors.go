// Package clanerrors provides coded domain errors so callers can branch on
// error category without string matching. Stores return sentinel errors;
// services translate those into coded errors at the boundary.
package clanerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation covers malformed or illegal input rejected before any
	// write (bad tag, empty name, self-targeting).
	CodeValidation Code = "validation"
	// CodeConflict covers state conflicts: duplicate tag/name, relation pair
	// already linked, invitation already pending.
	CodeConflict Code = "conflict"
	// CodeNotFound covers absent clans, players, or invitations.
	CodeNotFound Code = "not_found"
	// CodePersistence covers gateway write failures. The triggering mutation
	// is aborted and the caches left consistent.
	CodePersistence Code = "persistence"
	// CodeInternal covers unexpected faults.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Wrapped causes stay reachable via errors.Is
// and errors.As.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when uncoded.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}
