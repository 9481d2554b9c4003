// Package apperror defines the error kinds surfaced by the HR services.
package apperror

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a domain failure
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindInvalidReference Kind = "INVALID_REFERENCE"
	KindBlockedDelete    Kind = "BLOCKED_DELETE"
	KindMalformedInput   Kind = "MALFORMED_INPUT"
)

// Sentinels for errors.Is checks
var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict         = &Error{Kind: KindConflict, Message: "already exists"}
	ErrInvalidReference = &Error{Kind: KindInvalidReference, Message: "invalid reference"}
	ErrBlockedDelete    = &Error{Kind: KindBlockedDelete, Message: "delete blocked by dependents"}
	ErrMalformedInput   = &Error{Kind: KindMalformedInput, Message: "malformed input"}
)

// Error is a domain error with a kind and a caller-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// for every NotFound regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error         { return New(KindNotFound, message) }
func Conflict(message string) *Error         { return New(KindConflict, message) }
func InvalidReference(message string) *Error { return New(KindInvalidReference, message) }
func BlockedDelete(message string) *Error    { return New(KindBlockedDelete, message) }
func MalformedInput(message string) *Error   { return New(KindMalformedInput, message) }

// FromStore converts gorm's translated errors into domain errors. onFK decides
// what a foreign key violation means for the calling operation: a blocked
// delete, or an insert pointing at a missing row. Other errors pass through.
func FromStore(err error, message string, onFK Kind) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(KindNotFound, message, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(KindConflict, message, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(onFK, message, err)
	default:
		return err
	}
}
