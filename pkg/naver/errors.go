package naver

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusRateLimited is the status Naver's API gateway uses for throttling.
const StatusRateLimited = 420

// Error kinds, usable with errors.Is.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrAuth        = errors.New("authentication failed")
	ErrRateLimited = errors.New("rate limited")
	ErrUnexpected  = errors.New("unexpected upstream error")
	ErrConfig      = errors.New("configuration error")
)

// APIError is returned when a Naver API call does not answer 200 OK.
type APIError struct {
	Kind       error  // one of ErrBadRequest, ErrAuth, ErrRateLimited, ErrUnexpected
	Service    string // "geocode", "local", "directions"
	StatusCode int
	Message    string
}

// Error formats the message the way tool callers see it.
func (e *APIError) Error() string {
	switch e.Kind {
	case ErrBadRequest:
		return "Bad request: " + e.Message
	case ErrAuth:
		return "Auth error: " + e.Message
	case ErrRateLimited:
		return "Rate limited: " + e.Message
	default:
		return fmt.Sprintf("Unexpected error [status_code=%d, error=%s]", e.StatusCode, e.Message)
	}
}

// Unwrap exposes the error kind.
func (e *APIError) Unwrap() error {
	return e.Kind
}

// Temporary reports whether the failure is on the upstream side and the
// circuit breaker should count it.
func (e *APIError) Temporary() bool {
	return e.Kind == ErrUnexpected && e.StatusCode >= http.StatusInternalServerError
}

// NewAPIError maps an HTTP status code to a categorized error.
func NewAPIError(service string, statusCode int, message string) *APIError {
	var kind error
	switch statusCode {
	case http.StatusBadRequest:
		kind = ErrBadRequest
	case http.StatusUnauthorized:
		kind = ErrAuth
	case StatusRateLimited:
		kind = ErrRateLimited
	default:
		kind = ErrUnexpected
	}

	return &APIError{
		Kind:       kind,
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError reports missing or malformed configuration. It is fatal at
// startup.
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("Auth error: missing client id or client secret (%v)", e.Missing)
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfig, e.Err}
	}
	return []error{ErrConfig}
}
