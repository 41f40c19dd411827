// Package tangguh provides a resilient JSON API client built around a single
// request pipeline:
//
//   - Verb helpers (GET / POST / PUT / DELETE) against a fixed base URL
//   - Retries with exponential backoff + uniform jitter
//   - Circuit breaker (consecutive-failure threshold, timed cooldown)
//   - Structured error taxonomy (transport / server / client / payload)
//   - Pluggable logger (stdlib or zap) and Prometheus metrics
//   - Middleware chain for cross-cutting concerns (auth, tracing, stubbing)
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - Deterministic tests via injectable clock and backoff
//
// Typical usage:
//
//	client := tangguh.New("https://api.example.com",
//	    tangguh.WithMaxRetries(3),
//	    tangguh.WithCircuitBreakerThreshold(5),
//	    tangguh.WithSimpleLogger(),
//	)
//	data, err := client.Get(ctx, "/users/42", nil)
//
// Request and response bodies are JSON objects (map[string]any); an empty
// response body decodes to an empty map, never nil. Transport failures and
// 5xx responses are retried, 4xx responses and malformed payloads are not.
package tangguh
