package tangguh

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientErrorFormatting(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &ClientError{
		Type:       ErrorTypeTransport,
		Message:    "request failed",
		Cause:      cause,
		Method:     "GET",
		URL:        "https://api.test/ping",
		Attempt:    1,
		MaxRetries: 2,
	}

	msg := err.Error()
	assert.Contains(t, msg, "Transport: request failed")
	assert.Contains(t, msg, "connection refused")
	assert.Contains(t, msg, "attempt 2/3")
}

func TestClientErrorStatusInMessage(t *testing.T) {
	err := &ClientError{Type: ErrorTypeServer, Message: "server error", StatusCode: 503}
	assert.Contains(t, err.Error(), "status 503")
}

func TestClientErrorNilReceiver(t *testing.T) {
	var err *ClientError
	assert.Equal(t, "<nil>", err.Error())
	assert.Nil(t, err.Unwrap())
	assert.False(t, err.Is(&ClientError{Type: ErrorTypeServer}))
}

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ClientError{Type: ErrorTypeTransport, Message: "request failed", Cause: cause}

	require.ErrorIs(t, err, cause)
	wrapped := fmt.Errorf("calling upstream: %w", err)

	var clientErr *ClientError
	require.ErrorAs(t, wrapped, &clientErr)
	assert.Equal(t, ErrorTypeTransport, clientErr.Type)
}

func TestClientErrorIsMatchesByType(t *testing.T) {
	err := &ClientError{Type: ErrorTypeCircuitOpen, Message: "circuit breaker is open"}
	assert.True(t, errors.Is(err, &ClientError{Type: ErrorTypeCircuitOpen}))
	assert.False(t, errors.Is(err, &ClientError{Type: ErrorTypeServer}))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errType   string
		retryable bool
	}{
		{ErrorTypeTransport, true},
		{ErrorTypeServer, true},
		{ErrorTypeClient, false},
		{ErrorTypePayload, false},
		{ErrorTypeCircuitOpen, false},
		{ErrorTypeValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.errType, func(t *testing.T) {
			err := &ClientError{Type: tt.errType, Message: "x"}
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}

	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestIsCircuitOpen(t *testing.T) {
	open := &ClientError{Type: ErrorTypeCircuitOpen, Message: "circuit breaker is open", RetryAfter: 12 * time.Second}
	assert.True(t, IsCircuitOpen(open))
	assert.True(t, IsCircuitOpen(fmt.Errorf("wrapped: %w", open)))
	assert.False(t, IsCircuitOpen(&ClientError{Type: ErrorTypeTransport}))
	assert.False(t, IsCircuitOpen(nil))
}
