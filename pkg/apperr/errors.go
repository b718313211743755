package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of a catalog error. Callers branch on it to decide
// whether a record is skipped or the whole batch aborts.
type Kind string

const (
	// KindParse marks a malformed sprite identifier. Skip the record.
	KindParse Kind = "parse"
	// KindDuplicate marks an identifier already cataloged in this run. Skip the record.
	KindDuplicate Kind = "duplicate"
	// KindOutOfBounds marks a rectangle that falls outside its sheet. Skip the sprite.
	KindOutOfBounds Kind = "out_of_bounds"
	// KindStorage marks a transactional or I/O failure in the catalog. Abort the batch.
	KindStorage Kind = "storage"
	// KindNotFound marks an absent remote or catalog resource. Skip the unit of work.
	KindNotFound Kind = "not_found"
	// KindIO marks a sheet file that could not be read or written.
	KindIO Kind = "io"
	// KindUnauthorized marks a missing or invalid admin token.
	KindUnauthorized Kind = "unauthorized"
	// KindInternal is the fallback for untyped errors.
	KindInternal Kind = "internal"
)

// Error is the base error type of the catalog engine.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to err. A nil err yields nil.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Storage wraps a database failure.
func Storage(message string, err error) error {
	return Wrap(KindStorage, message, err)
}

// NotFoundf creates a not found error with formatting.
func NotFoundf(format string, args ...any) error {
	return Newf(KindNotFound, format, args...)
}

// KindOf returns the kind of the outermost *Error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Skippable reports whether a batch may log err and move on to the next record.
func Skippable(err error) bool {
	switch KindOf(err) {
	case KindParse, KindDuplicate, KindOutOfBounds, KindNotFound:
		return true
	}
	return false
}
