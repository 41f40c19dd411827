package tangguh

import "net/http"

// RoundTripper is the transport boundary: one HTTP exchange in, one response
// or transport-level error out.
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a plain function into a RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps the transport exchange. Middleware run in registration
// order, each receiving the next hop in the chain.
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// roundTrip executes the middleware chain ending at the HTTP client.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripperFunc(c.httpClient.Do)

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}
