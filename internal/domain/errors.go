package domain

import (
	"fmt"
	"strconv"
)

// ErrorKind enumerates the failure categories surfaced to callers.
type ErrorKind int

const (
	// KindConfiguration covers bad or missing connection settings.
	KindConfiguration ErrorKind = iota + 1
	// KindAuthentication covers rejected or missing credentials.
	KindAuthentication
	// KindNotFound covers a 404 for an issue.
	KindNotFound
	// KindAPI is the catch-all remote failure.
	KindAPI
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not found"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by this module. StatusCode is zero
// when the failure did not come from an HTTP response.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

// Sentinels for errors.Is. They compare by Kind only.
var (
	ErrConfiguration  = &Error{Kind: KindConfiguration}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrAPI            = &Error{Kind: KindAPI}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewConfigurationError returns a KindConfiguration error.
func NewConfigurationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NewAuthenticationError returns a KindAuthentication error.
func NewAuthenticationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError returns a KindNotFound error for a 404 response.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, StatusCode: 404}
}

// NewAPIError returns a KindAPI error. An empty message is replaced by the
// status code.
func NewAPIError(message string, statusCode int) *Error {
	if message == "" {
		message = strconv.Itoa(statusCode)
	}
	return &Error{Kind: KindAPI, Message: message, StatusCode: statusCode}
}
