package assistant

import "errors"

type ErrorCode string

const (
	// ErrorUnauthenticated means no credential was available; the request
	// never reached the network.
	ErrorUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrorRequestFailed covers non-2xx responses, transport failures and
	// bodies that could not be parsed.
	ErrorRequestFailed ErrorCode = "REQUEST_FAILED"
)

const (
	msgNotAuthenticated = "Not authenticated"
	msgRequestFailed    = "AI request failed"
)

// Error is returned by Client.Ask. Its Error text is the user-facing
// message: the server detail when one was provided, else a generic one.
type Error struct {
	Code       ErrorCode
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Code == ErrorUnauthenticated:
		return msgNotAuthenticated
	case e.Detail != "":
		return e.Detail
	default:
		return msgRequestFailed
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsUnauthenticated reports whether err is a missing-credential failure.
func IsUnauthenticated(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == ErrorUnauthenticated
}

func newError(code ErrorCode, status int, detail string, err error) *Error {
	return &Error{Code: code, StatusCode: status, Detail: detail, Err: err}
}
