package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a failed call to one of the remote APIs. Every outbound
// request that does not produce a decodable success response is converted
// into one of these at the call site, so transport failures never propagate
// as raw errors into the session engine.
type Error struct {
	// StatusCode is the HTTP status of the failed response, or 0 when the
	// request never produced one (network failure, cancelled context).
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Transport creates an error for a request that failed before a response
// was received.
func Transport(err error) *Error {
	return &Error{
		Code:    "TRANSPORT_ERROR",
		Message: err.Error(),
	}
}

// Status creates an error for a non-success HTTP response.
func Status(statusCode int) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       "HTTP_ERROR",
		Message:    http.StatusText(statusCode),
	}
}

// Validation creates an error for a response that parsed successfully but
// lacked required fields. Downstream logic treats it like a transport error.
func Validation(message string) *Error {
	return &Error{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// Decode creates an error for a response body that could not be parsed.
func Decode(err error) *Error {
	return &Error{
		Code:    "DECODE_ERROR",
		Message: fmt.Sprintf("failed to decode response: %v", err),
	}
}

// StatusCode extracts the HTTP status from err, or 0 if err carries none.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
