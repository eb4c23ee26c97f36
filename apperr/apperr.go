package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable error classification exposed to API clients.
type Kind string

const (
	KindNotFound           Kind = "NotFound"
	KindBadRequest         Kind = "BadRequest"
	KindSignatureMismatch  Kind = "SignatureMismatch"
	KindGatewayUnavailable Kind = "GatewayUnavailable"
	KindEmptyOrder         Kind = "EmptyOrder"
	KindInvalidTransition  Kind = "InvalidTransition"
	KindUnauthorized       Kind = "Unauthorized"
	KindForbidden          Kind = "Forbidden"
	KindInternal           Kind = "Internal"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the underlying cause for logs while the client only ever
// sees kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf classifies any error; non-apperr errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest, KindEmptyOrder:
		return http.StatusBadRequest
	case KindSignatureMismatch:
		return http.StatusBadRequest
	case KindInvalidTransition:
		return http.StatusConflict
	case KindGatewayUnavailable:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
