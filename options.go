package tangguh

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Documented defaults applied by New.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxRetries       = 2
	DefaultBackoffFactor    = 500 * time.Millisecond
	DefaultJitter           = 100 * time.Millisecond
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 30 * time.Second
)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithHeaders merges the supplied headers over the default headers
// (Content-Type and Accept of application/json).
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.defaultHeaders[key] = value
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts after the initial
// attempt.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBackoffFactor sets the base delay doubled on each retry attempt.
func WithBackoffFactor(d time.Duration) Option {
	return func(c *Client) {
		c.backoffFactor = d
	}
}

// WithJitter sets the upper bound of the uniform random delay added to each
// backoff.
func WithJitter(d time.Duration) Option {
	return func(c *Client) {
		c.jitter = d
	}
}

// WithBackoff replaces the computed exponential backoff with a custom delay
// function. Factor and jitter settings are ignored when set.
func WithBackoff(fn BackoffFunc) Option {
	return func(c *Client) {
		c.backoffFn = fn
	}
}

// WithCircuitBreakerThreshold sets the consecutive-failure count that opens
// the circuit.
func WithCircuitBreakerThreshold(n int) Option {
	return func(c *Client) {
		c.failureThreshold = n
	}
}

// WithCircuitBreakerReset sets how long the circuit stays open once tripped.
func WithCircuitBreakerReset(d time.Duration) Option {
	return func(c *Client) {
		c.resetTimeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
		if c.httpClient != nil && c.timeout != 0 {
			c.httpClient.Timeout = c.timeout
		}
	}
}

// WithTransport sets the RoundTripper on the underlying HTTP client. Mainly
// useful for stubbing the network in tests.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		if c.httpClient != nil {
			c.httpClient.Transport = transport
		}
	}
}

// WithMiddleware adds middleware around the transport exchange.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithLogger sets the logging sink for retry and circuit state events.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables logging via the stdlib-backed SimpleLogger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		c.logger = NewSimpleLogger()
	}
}

// WithZapLogger sets a zap logger as the logging sink.
func WithZapLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = NewZapLogger(logger)
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithClock sets the time source used for cooldown arithmetic. Tests use a
// fake clock to move the cooldown deadline around deterministically.
func WithClock(clock Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// validateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) validateConfiguration() error {
	var violations []string

	if c.baseURL == "" {
		violations = append(violations, "base URL must not be empty")
	}
	if c.timeout <= 0 {
		violations = append(violations, "timeout must be positive")
	}
	if c.maxRetries < 0 {
		violations = append(violations, "maxRetries must be non-negative")
	}
	if c.backoffFactor < 0 {
		violations = append(violations, "backoffFactor must be non-negative")
	}
	if c.jitter < 0 {
		violations = append(violations, "jitter must be non-negative")
	}
	if c.failureThreshold < 1 {
		violations = append(violations, "circuit breaker threshold must be at least 1")
	}
	if c.resetTimeout < 0 {
		violations = append(violations, "circuit breaker reset must be non-negative")
	}
	if c.httpClient == nil {
		violations = append(violations, "HTTP client cannot be nil")
	}
	if c.clock == nil {
		violations = append(violations, "clock cannot be nil")
	}
	for i, middleware := range c.middleware {
		if middleware == nil {
			violations = append(violations, fmt.Sprintf("middleware[%d] cannot be nil", i))
		}
	}

	if len(violations) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", violations),
		}
	}

	return nil
}
