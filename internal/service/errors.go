package service

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindAuthRequired
	KindForbidden
	KindConflict
	KindStorageFailure
	KindUpstreamFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthRequired:
		return "auth_required"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindStorageFailure:
		return "storage_failure"
	case KindUpstreamFailure:
		return "upstream_failure"
	}
	return "unknown"
}

// Error is the failure type returned by every service. Message is safe to
// show to the caller; Err keeps the underlying cause.
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

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func ValidationError(format string, args ...any) error {
	return newError(KindValidation, nil, format, args...)
}

func NotFoundError(format string, args ...any) error {
	return newError(KindNotFound, nil, format, args...)
}

func AuthRequiredError(format string, args ...any) error {
	return newError(KindAuthRequired, nil, format, args...)
}

func ForbiddenError(format string, args ...any) error {
	return newError(KindForbidden, nil, format, args...)
}

func ConflictError(format string, args ...any) error {
	return newError(KindConflict, nil, format, args...)
}

func StorageError(err error, format string, args ...any) error {
	return newError(KindStorageFailure, err, format, args...)
}

func UpstreamError(err error, format string, args ...any) error {
	return newError(KindUpstreamFailure, err, format, args...)
}

// KindOf reports the kind carried by err. Errors that did not originate in
// this package are upstream failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamFailure
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
