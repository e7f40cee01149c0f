// Package apperr defines the error taxonomy shared by every persistence
// operation.
//
// Each failure carries a [Kind] plus a human-readable message. Filesystem
// errors are mapped from the OS classification: "not found" and
// "permission denied" keep their kinds, everything else becomes [Io].
package apperr

import (
	"errors"
	"fmt"
	"os"
)

// Kind classifies an operation failure.
type Kind string

const (
	// FileNotFound reports a missing file, directory, snapshot, or
	// history entry.
	FileNotFound Kind = "FILE_NOT_FOUND"

	// PermissionDenied reports an OS permission failure.
	PermissionDenied Kind = "PERMISSION_DENIED"

	// Conflict reports an optimistic-concurrency failure: the file on
	// disk changed after the caller captured its modification time. Only
	// the save path raises it.
	Conflict Kind = "CONFLICT"

	// InvalidEncoding reports a file that was expected to be UTF-8 text
	// but is not.
	InvalidEncoding Kind = "INVALID_ENCODING"

	// Io is the catch-all for filesystem and serialization failures not
	// covered by a more specific kind.
	Io Kind = "IO"
)

// Error is a classified operation failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an [Error] with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an [Error] with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an [Error] that records cause for errors.Is/As chains.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// FromOS maps an OS-level filesystem error into the taxonomy.
//
// os.ErrNotExist becomes [FileNotFound], os.ErrPermission becomes
// [PermissionDenied], anything else becomes [Io]. A nil error returns nil.
func FromOS(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case os.IsNotExist(err):
		return Wrap(FileNotFound, err.Error(), err)
	case os.IsPermission(err):
		return Wrap(PermissionDenied, err.Error(), err)
	default:
		return Wrap(Io, err.Error(), err)
	}
}

// KindOf returns the kind carried by err, or [Io] if err carries none.
// Returns "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return Io
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}

	return false
}
