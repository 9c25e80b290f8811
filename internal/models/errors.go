package models

import (
	"fmt"
	"net/http"
)

// Validation error codes. These are detected before any network call.
const (
	CodeMissingAPIKey      = "missing_api_key"
	CodeInvalidCoordinates = "invalid_coordinates"
	CodeInvalidDate        = "invalid_date"
	CodeDateInPast         = "date_in_past"
	CodeDateTooFar         = "date_too_far"
)

// Upstream error codes for failures talking to the forecast provider.
const (
	CodeTransportFailure = "transport_failure"
	CodeUpstreamStatus   = "upstream_status"
	CodeInvalidBody      = "invalid_body"
	CodeCircuitOpen      = "circuit_open"
)

// ValidationError represents a rejected report request
type ValidationError struct {
	Code    string
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}

// HTTPStatus maps the error to a response status.
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// UpstreamError represents a failed fetch from the forecast provider.
type UpstreamError struct {
	Code       string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether retrying the request later could succeed.
func (e *UpstreamError) IsTransient() bool {
	switch e.Code {
	case CodeTransportFailure, CodeCircuitOpen:
		return true
	case CodeUpstreamStatus:
		return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// HTTPStatus maps the error to a response status.
func (e *UpstreamError) HTTPStatus() int {
	if e.Code == CodeCircuitOpen {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
