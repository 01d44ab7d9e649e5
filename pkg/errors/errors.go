package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeStatus     ErrorType = "status"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	// ResetAt is the upstream rate-limit reset time. Zero when the
	// response did not carry one.
	ResetAt time.Time
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport-level failure
func NewNetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: err.Error(),
		Err:     err,
	}
}

// NewRateLimitError reports a 403 with the reset time advertised by the server
func NewRateLimitError(resetAt time.Time) *Error {
	return &Error{
		Type:    ErrorTypeRateLimit,
		Message: "rate limit exceeded",
		Code:    403,
		ResetAt: resetAt,
	}
}

// NewStatusError reports an unexpected HTTP status
func NewStatusError(code int, url string) *Error {
	return &Error{
		Type:    ErrorTypeStatus,
		Message: fmt.Sprintf("unexpected status for %s", url),
		Code:    code,
	}
}

// NewParsingError reports a response body that could not be decoded
func NewParsingError(err error) *Error {
	return &Error{
		Type:    ErrorTypeParsing,
		Message: fmt.Sprintf("failed to parse JSON: %v", err),
		Err:     err,
	}
}

// NewExtractionError reports a required field missing from an API object
func NewExtractionError(object, field string) *Error {
	return &Error{
		Type:    ErrorTypeExtraction,
		Message: fmt.Sprintf("%s is missing required field %q", object, field),
	}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// IsStatus reports whether err is a status error carrying the given code
func IsStatus(err error, code int) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Type == ErrorTypeStatus && e.Code == code
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown when err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}
