// Package sqlerror provides typed build errors with stable kind tags.
//
// Callers can branch on the kind of a failed build without parsing error
// text. Usage errors (bad names, malformed clause combinations) are
// recoverable by fixing the input; KindInternal marks invariant violations
// in hand-constructed trees and is never produced by the fluent builders.
package sqlerror

import (
	"errors"
	"fmt"
)

// Kind identifies a class of build failure. Kind values are stable and safe
// to match on.
type Kind string

const (
	// KindInvalidName marks a rejected table or alias name.
	KindInvalidName Kind = "invalid_name"
	// KindEmptySelect marks a SELECT with no output columns.
	KindEmptySelect Kind = "empty_select"
	// KindDuplicateAlias marks two output columns sharing an alias.
	KindDuplicateAlias Kind = "duplicate_alias"
	// KindHavingWithoutGroupBy marks a HAVING clause with no GROUP BY.
	KindHavingWithoutGroupBy Kind = "having_without_group_by"
	// KindUngroupedColumn marks a non-aggregate output column missing from
	// GROUP BY while aggregates are present.
	KindUngroupedColumn Kind = "ungrouped_column"
	// KindInvalidLimit marks LIMIT <= 0.
	KindInvalidLimit Kind = "invalid_limit"
	// KindInvalidOffset marks OFFSET < 0.
	KindInvalidOffset Kind = "invalid_offset"
	// KindParamMismatch marks an IN condition whose placeholder list does
	// not match its value list.
	KindParamMismatch Kind = "param_mismatch"
	// KindUnknownColumn marks a column name absent from the declared schema.
	KindUnknownColumn Kind = "unknown_column"
	// KindBadValue marks a value outside the supported Spanner value domain.
	KindBadValue Kind = "bad_value"
	// KindInternal marks an invariant violation: a malformed tree that the
	// fluent API cannot produce. Not recoverable by retrying.
	KindInternal Kind = "internal"
)

// Error implements the error interface with a stable kind tag.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Kind returns the stable kind tag.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the error message without the cause.
func (e *Error) Message() string { return e.message }

// Usage reports whether the error is a usage error the caller can recover
// from by fixing the input, as opposed to an internal invariant violation.
func (e *Error) Usage() bool { return e.kind != KindInternal }

// Unwrap returns the underlying cause for errors.As/errors.Is support.
func (e *Error) Unwrap() error { return e.cause }

// New creates an error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates an error with the given kind and formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an underlying error with a kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// KindOf returns the kind of err if it is (or wraps) an *Error, and "" otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// InvalidName creates a KindInvalidName error.
func InvalidName(message string) *Error {
	return &Error{kind: KindInvalidName, message: message}
}

// InvalidNamef creates a KindInvalidName error with a formatted message.
func InvalidNamef(format string, args ...any) *Error {
	return &Error{kind: KindInvalidName, message: fmt.Sprintf(format, args...)}
}

// EmptySelect creates a KindEmptySelect error.
func EmptySelect(message string) *Error {
	return &Error{kind: KindEmptySelect, message: message}
}

// DuplicateAliasf creates a KindDuplicateAlias error with a formatted message.
func DuplicateAliasf(format string, args ...any) *Error {
	return &Error{kind: KindDuplicateAlias, message: fmt.Sprintf(format, args...)}
}

// HavingWithoutGroupBy creates a KindHavingWithoutGroupBy error.
func HavingWithoutGroupBy(message string) *Error {
	return &Error{kind: KindHavingWithoutGroupBy, message: message}
}

// UngroupedColumnf creates a KindUngroupedColumn error with a formatted message.
func UngroupedColumnf(format string, args ...any) *Error {
	return &Error{kind: KindUngroupedColumn, message: fmt.Sprintf(format, args...)}
}

// InvalidLimitf creates a KindInvalidLimit error with a formatted message.
func InvalidLimitf(format string, args ...any) *Error {
	return &Error{kind: KindInvalidLimit, message: fmt.Sprintf(format, args...)}
}

// InvalidOffsetf creates a KindInvalidOffset error with a formatted message.
func InvalidOffsetf(format string, args ...any) *Error {
	return &Error{kind: KindInvalidOffset, message: fmt.Sprintf(format, args...)}
}

// ParamMismatchf creates a KindParamMismatch error with a formatted message.
func ParamMismatchf(format string, args ...any) *Error {
	return &Error{kind: KindParamMismatch, message: fmt.Sprintf(format, args...)}
}

// UnknownColumnf creates a KindUnknownColumn error with a formatted message.
func UnknownColumnf(format string, args ...any) *Error {
	return &Error{kind: KindUnknownColumn, message: fmt.Sprintf(format, args...)}
}

// BadValuef creates a KindBadValue error with a formatted message.
func BadValuef(format string, args ...any) *Error {
	return &Error{kind: KindBadValue, message: fmt.Sprintf(format, args...)}
}

// Internal creates a KindInternal error.
func Internal(message string) *Error {
	return &Error{kind: KindInternal, message: message}
}

// Internalf creates a KindInternal error with a formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{kind: KindInternal, message: fmt.Sprintf(format, args...)}
}
