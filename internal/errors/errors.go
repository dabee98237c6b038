package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	ErrInvalidInput
	ErrParse
	ErrSchema
	ErrUnsupportedType
	ErrRuntime
)

// String returns the name used in logs and API error codes
func (k Kind) String() string {
	switch k {
	case ErrNotFound:
		return "not_found"
	case ErrValidation:
		return "validation"
	case ErrConflict:
		return "conflict"
	case ErrInvalidInput:
		return "invalid_input"
	case ErrParse:
		return "parse"
	case ErrSchema:
		return "schema"
	case ErrUnsupportedType:
		return "unsupported_type"
	case ErrRuntime:
		return "runtime"
	default:
		return "internal"
	}
}

// Error is an application-level error with a kind for classification.
// Subject names the offending component id (or settings section) and
// Field the offending field within it, when known.
type Error struct {
	Kind    Kind
	Message string
	Subject string
	Field   string
	Err     error // underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Subject != "" {
		if e.Field != "" {
			msg = fmt.Sprintf("'%s' %s: %s", e.Subject, e.Field, e.Message)
		} else {
			msg = fmt.Sprintf("'%s': %s", e.Subject, e.Message)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// Parse wraps a document syntax error
func Parse(err error) *Error {
	return &Error{Kind: ErrParse, Message: "document parse error", Err: err}
}

// Schemaf reports a validation failure for one field of one component
func Schemaf(subject, field, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrSchema, Subject: subject, Field: field, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedType reports a component whose type name is not recognised
func UnsupportedType(id, name string) *Error {
	return &Error{Kind: ErrUnsupportedType, Subject: id, Field: "type", Message: fmt.Sprintf("unsupported type '%s'", name)}
}

// Runtimef reports a rejected mutation at the state engine boundary
func Runtimef(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrRuntime, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// IsKind reports whether err carries an *Error of the given kind anywhere in its chain
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or ErrInternal for foreign errors
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}
