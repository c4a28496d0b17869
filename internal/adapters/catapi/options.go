package catapi

import (
	"net/http"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/okian/catbreeds/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. WithTimeout is ignored afterwards.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
			c.customHTTP = true
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithMaxRetries sets how many extra attempts transient failures get.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the retry delay policy factory.
func WithBackoff(newBackoff func() backoff.BackOff) Option {
	return func(c *Client) {
		if newBackoff != nil {
			c.newBackoff = newBackoff
		}
	}
}

// WithBreaker opens the circuit after failures consecutive failed calls and
// keeps it open for openFor. failures == 0 disables the breaker.
func WithBreaker(failures int, openFor time.Duration) Option {
	return func(c *Client) {
		if failures >= 0 {
			c.breakerFailures = failures
		}
		if openFor > 0 {
			c.breakerTimeout = openFor
		}
	}
}

// WithLogger sets the logger used for call tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
