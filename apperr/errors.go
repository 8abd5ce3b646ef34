// Package apperr defines the error kinds that may cross the HTTP boundary
// and the single writer that turns them into responses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Every error returned by the service layer
// carries exactly one Kind.
type Kind int

const (
	KindStorageFailure Kind = iota
	KindUnauthenticated
	KindInvalidToken
	KindInvalidCredentials
	KindForbidden
	KindNotFound
	KindConflict
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidToken:
		return "invalid_token"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return "storage_failure"
	}
}

// AppError is an error with a kind and a client-safe message. Err keeps
// the underlying cause for logs; it is never written to the client.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Unauthenticated(message string) *AppError { return New(KindUnauthenticated, message) }

func InvalidToken(err error) *AppError {
	return Wrap(KindInvalidToken, "Token is not valid", err)
}

func Forbidden(message string) *AppError { return New(KindForbidden, message) }

func NotFound(message string) *AppError { return New(KindNotFound, message) }

func Conflict(message string) *AppError { return New(KindConflict, message) }

func Validation(message string) *AppError { return New(KindValidationFailed, message) }

// Storage wraps a persistence failure. The message shown to clients is
// always the generic one.
func Storage(err error) *AppError {
	return Wrap(KindStorageFailure, genericStorageMessage, err)
}

const genericStorageMessage = "Something went wrong, please try again later"

// KindOf reports the kind of err. Errors that are not AppErrors are
// storage failures.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorageFailure
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
