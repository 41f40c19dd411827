package tangguh

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ambiyansyah-risyal/tangguh/internal/backoff"
)

// BackoffFunc computes the delay before retrying the given attempt
// (0-indexed: attempt 0 is the first failed attempt).
type BackoffFunc func(attempt int) time.Duration

// Option represents a configuration option.
type Option func(*Client)

// Client is a resilient JSON API client. Every verb funnels through one
// pipeline: circuit check, attempt, retry-eligibility check, backoff, retry.
// It is safe for concurrent use; resilience counters are guarded by a single
// mutex that is never held across a network call or a backoff sleep.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	timeout          time.Duration
	maxRetries       int
	backoffFactor    time.Duration
	jitter           time.Duration
	failureThreshold int
	resetTimeout     time.Duration
	backoffFn        BackoffFunc
	middleware       []Middleware
	logger           Logger
	metrics          *MetricsCollector
	clock            Clock
	validationError  error

	state resilienceState

	headerMu       sync.RWMutex
	defaultHeaders map[string]string
}

// New constructs a Client for the given base URL (trailing slash stripped)
// using the provided functional options. Construction performs no I/O. A
// best-effort validation is performed; call IsValid / ValidationError for
// errors.
func New(baseURL string, options ...Option) *Client {
	client := &Client{
		httpClient:       &http.Client{Timeout: DefaultTimeout},
		baseURL:          strings.TrimRight(baseURL, "/"),
		timeout:          DefaultTimeout,
		maxRetries:       DefaultMaxRetries,
		backoffFactor:    DefaultBackoffFactor,
		jitter:           DefaultJitter,
		failureThreshold: DefaultFailureThreshold,
		resetTimeout:     DefaultResetTimeout,
		clock:            realClock{},
		defaultHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}

	for _, option := range options {
		option(client)
	}

	if client.backoffFn == nil {
		strategy := backoff.ExponentialJitter{Factor: client.backoffFactor, Jitter: client.jitter}
		client.backoffFn = strategy.Delay
	}

	if err := client.validateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// Get performs a GET request against path. headers may be nil; supplied
// values override the client's default headers for this call only.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, path, nil, headers)
}

// Post performs a POST request with body serialized as JSON. body and
// headers may be nil.
func (c *Client) Post(ctx context.Context, path string, body map[string]any, headers map[string]string) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, path, body, headers)
}

// Put performs a PUT request with body serialized as JSON. body and headers
// may be nil.
func (c *Client) Put(ctx context.Context, path string, body map[string]any, headers map[string]string) (map[string]any, error) {
	return c.do(ctx, http.MethodPut, path, body, headers)
}

// Delete performs a DELETE request against path. headers may be nil.
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) (map[string]any, error) {
	return c.do(ctx, http.MethodDelete, path, nil, headers)
}

// SetAuthToken sets the Authorization default header to "{tokenType} {token}"
// for subsequent calls. In-flight requests are not affected.
func (c *Client) SetAuthToken(tokenType, token string) {
	c.headerMu.Lock()
	c.defaultHeaders["Authorization"] = tokenType + " " + token
	c.headerMu.Unlock()

	if c.logger != nil {
		c.logger.Info("authentication token set", "tokenType", tokenType)
	}
}

// SetBearerToken sets a Bearer Authorization token for subsequent calls.
func (c *Client) SetBearerToken(token string) {
	c.SetAuthToken("Bearer", token)
}

// do is the shared request pipeline.
func (c *Client) do(ctx context.Context, method, path string, body map[string]any, headers map[string]string) (map[string]any, error) {
	start := c.clock.Now()
	endpoint := "/" + strings.TrimPrefix(path, "/")
	target := c.baseURL + endpoint

	remaining, open, trial := c.state.gate(c.clock.Now())
	if open {
		if c.logger != nil {
			c.logger.Warn("circuit open, rejecting request", "method", method, "url", target, "retryAfter", remaining)
		}
		c.metrics.RecordError(ErrorTypeCircuitOpen, method, endpoint)
		return nil, &ClientError{
			Type:       ErrorTypeCircuitOpen,
			Message:    "circuit breaker is open",
			Method:     method,
			URL:        target,
			RetryAfter: remaining,
		}
	}
	if trial {
		if c.logger != nil {
			c.logger.Warn("circuit cooldown elapsed, allowing trial request", "method", method, "url", target)
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, &ClientError{
				Type:    ErrorTypePayload,
				Message: "encoding request body",
				Cause:   err,
				Method:  method,
				URL:     target,
			}
		}
	}

	reqHeaders := c.snapshotHeaders(headers)

	c.metrics.RecordRequestStart(method, endpoint)
	defer c.metrics.RecordRequestEnd(method, endpoint)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.logger != nil {
			c.logger.Debug("starting attempt", "method", method, "url", target, "attempt", attempt)
		}
		if attempt > 0 {
			c.metrics.RecordRetry(method, endpoint, attempt)
		}

		result, status, err := c.exchange(ctx, method, target, payload, reqHeaders)
		if err == nil {
			c.state.recordSuccess()
			c.metrics.RecordCircuitState("default", false, 0)
			c.metrics.RecordRequest(method, endpoint, status, c.clock.Since(start))
			return result, nil
		}

		streak, opened := c.state.recordFailure(c.clock.Now(), c.failureThreshold, c.resetTimeout)
		if c.logger != nil {
			c.logger.Warn("request failure recorded", "method", method, "url", target, "attempt", attempt, "failureStreak", streak, "error", err.Error())
			if opened {
				c.logger.Warn("circuit opened", "method", method, "url", target, "cooldown", c.resetTimeout)
			}
		}
		gaugeStreak := streak
		if opened {
			gaugeStreak = 0
		}
		c.metrics.RecordCircuitState("default", opened, gaugeStreak)

		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			clientErr.Attempt = attempt
			clientErr.MaxRetries = c.maxRetries
		}

		if !IsRetryable(err) || attempt == c.maxRetries {
			c.metrics.RecordError(errorType(err), method, endpoint)
			c.metrics.RecordRequest(method, endpoint, status, c.clock.Since(start))
			return nil, err
		}

		delay := c.backoffFn(attempt)
		if c.logger != nil {
			c.logger.Debug("scheduling retry", "method", method, "url", target, "nextAttempt", attempt+1, "backoff", delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	// Every loop iteration either returns a result, returns an error, or
	// continues to the next attempt; falling through is a bug.
	panic("tangguh: request pipeline exited without a result")
}

// exchange performs a single HTTP exchange and classifies the outcome.
func (c *Client) exchange(ctx context.Context, method, target string, payload []byte, headers map[string]string) (map[string]any, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, 0, &ClientError{
			Type:    ErrorTypeTransport,
			Message: "building request",
			Cause:   err,
			Method:  method,
			URL:     target,
		}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, 0, &ClientError{
			Type:    ErrorTypeTransport,
			Message: "request failed",
			Cause:   err,
			Method:  method,
			URL:     target,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &ClientError{
			Type:       ErrorTypeTransport,
			Message:    "reading response body",
			Cause:      err,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
		}
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, resp.StatusCode, &ClientError{
			Type:       ErrorTypeServer,
			Message:    "server error",
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode >= 400:
		return nil, resp.StatusCode, &ClientError{
			Type:       ErrorTypeClient,
			Message:    "client error",
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, resp.StatusCode, nil
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, resp.StatusCode, &ClientError{
			Type:       ErrorTypePayload,
			Message:    "decoding response body",
			Cause:      err,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
		}
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, resp.StatusCode, nil
}

// snapshotHeaders merges per-call headers over the default headers.
func (c *Client) snapshotHeaders(headers map[string]string) map[string]string {
	c.headerMu.RLock()
	merged := make(map[string]string, len(c.defaultHeaders)+len(headers))
	for key, value := range c.defaultHeaders {
		merged[key] = value
	}
	c.headerMu.RUnlock()

	for key, value := range headers {
		merged[key] = value
	}
	return merged
}

// errorType extracts the ClientError type label for metrics.
func errorType(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return "Unknown"
}
