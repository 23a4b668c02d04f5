package usecase

import (
	"fmt"
	"net/http"
	"strings"
)

type ErrorCode string

const (
	ErrorInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrorUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrorInternal        ErrorCode = "INTERNAL_ERROR"
)

// Error carries a machine code, a log-friendly reason and the detail text
// returned to clients.
type Error struct {
	Code   ErrorCode
	Reason string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason, detail string, err error) *Error {
	return &Error{Code: code, Reason: reason, Detail: detail, Err: err}
}

// HTTPStatus maps the error code to the status the assistant endpoint
// answers with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case ErrorInvalidInput:
		return http.StatusBadRequest
	case ErrorUnauthenticated:
		return http.StatusUnauthorized
	case ErrorInternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// BearerFromHeader extracts the token from an Authorization header value.
func BearerFromHeader(v string) string {
	v = strings.TrimSpace(v)
	if len(v) < len("Bearer ") || !strings.EqualFold(v[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(v[len("Bearer "):])
}
