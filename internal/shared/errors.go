package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrTokenInvalid indicates the provider rejected the bearer token.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrMissingCredentials occurs when a request is attempted without a
	// bearer token or username.
	ErrMissingCredentials = errors.New("missing credentials")
)

// StatusError carries a non-2xx provider response code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.Code)
}

// NetworkError wraps a transport-level failure reaching the provider.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps a malformed provider or cache payload.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// UserSafeMessage maps internal errors to a message suitable for API clients.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTokenInvalid):
		return "session expired, please sign in again"
	case errors.Is(err, ErrMissingCredentials):
		return "authentication required"
	case errors.Is(err, ErrNotFound):
		return "not found"
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "upstream provider unreachable"
	}
	return "internal error"
}
