package tangguh

import (
	"errors"
	"fmt"
	"time"
)

// Error type identifiers carried by ClientError.Type.
const (
	// ErrorTypeCircuitOpen: the circuit breaker is open, no attempt was made.
	ErrorTypeCircuitOpen = "CircuitOpen"

	// ErrorTypeTransport: connectivity failure (DNS, connect, timeout, reset)
	// where no HTTP response was obtained.
	ErrorTypeTransport = "Transport"

	// ErrorTypeServer: the remote answered with a 5xx status.
	ErrorTypeServer = "Server"

	// ErrorTypeClient: the remote answered with a 4xx status.
	ErrorTypeClient = "Client"

	// ErrorTypePayload: the response body could not be decoded as a JSON object.
	ErrorTypePayload = "Payload"

	// ErrorTypeValidation: the client configuration is invalid.
	ErrorTypeValidation = "Validation"
)

// ClientError is the error type surfaced by the client. Type identifies the
// failure class, the remaining fields carry diagnostic context.
type ClientError struct {
	Type       string
	Message    string
	Cause      error
	Method     string
	URL        string
	StatusCode int
	Attempt    int
	MaxRetries int

	// RetryAfter holds the remaining cooldown when Type is ErrorTypeCircuitOpen.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.MaxRetries > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt+1, e.MaxRetries+1)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsRetryable reports whether err represents a failure that may succeed on a
// later attempt: transport-level failures and 5xx responses. 4xx responses,
// payload decode failures and open-circuit rejections are not retryable.
func IsRetryable(err error) bool {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	switch clientErr.Type {
	case ErrorTypeTransport, ErrorTypeServer:
		return true
	default:
		return false
	}
}

// IsCircuitOpen reports whether err is an open-circuit rejection.
func IsCircuitOpen(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrorTypeCircuitOpen
}
