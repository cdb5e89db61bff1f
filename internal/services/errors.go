package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so handlers can map them to
// transport-level codes without inspecting messages.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindConflict
	KindTransient
)

// Error is a kinded service error. Store errors are wrapped so the original
// cause stays reachable through errors.Is / errors.As.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFoundError reports a referenced entity that is absent or inactive.
func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// ValidationError reports malformed input detected before any mutation.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// UnauthorizedError reports a mutation attempted by a non-owner.
func UnauthorizedError(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// ConflictError reports a state that already holds (e.g. re-mint attempts).
func ConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// storeError wraps an unexpected database failure.
func storeError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the kind from any error chain; unclassified errors are
// treated as internal.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
