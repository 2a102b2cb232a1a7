// Package outbound wraps the HTTP client used for third-party provider calls with a
// bounded timeout and optional request pacing.
package outbound

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single provider request when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// Client sends provider requests. A nil Limiter means no pacing.
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// New returns a Client with the given timeout and at most maxRPS requests per second.
// maxRPS <= 0 disables pacing.
func New(timeout time.Duration, maxRPS float64) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{HTTPClient: &http.Client{Timeout: timeout}}
	if maxRPS > 0 {
		burst := int(maxRPS)
		if burst < 1 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(maxRPS), burst)
	}
	return c
}

// Do waits for a pacing token (honouring the request context) and sends req.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("outbound: rate limit wait: %w", err)
		}
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return hc.Do(req)
}
