// Package catapi is the HTTP client for the API Ninjas cats endpoint.
//
// Every failed request comes back as *APIError: non-2xx answers carry the
// upstream message, and requests that got no response (DNS, refused
// connections, timeouts, cancelled contexts) carry FallbackMessage and unwrap
// to the transport error. Errors raised outside the HTTP exchange (ErrDecode,
// ErrEmptyBreed, an open circuit) are returned unchanged.
package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/okian/catbreeds/internal/domain/cat"
	"github.com/okian/catbreeds/pkg/logger"
	"github.com/okian/catbreeds/pkg/metrics"
)

// APIKeyHeader carries the API Ninjas key.
const APIKeyHeader = "X-Api-Key"

// Operation names used in logs and metrics.
const (
	OpBreed = "breed"
	OpList  = "list"
)

const (
	maxBodyBytes          = 4 << 20
	breakerName           = "cats-api"
	defaultTimeout        = 10 * time.Second
	defaultBreakerTimeout = 30 * time.Second
)

// Client issues GET /cats requests. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	apiKey  string

	http       *http.Client
	customHTTP bool
	timeout    time.Duration

	maxRetries int
	newBackoff func() backoff.BackOff

	breakerFailures int
	breakerTimeout  time.Duration
	breaker         *gobreaker.CircuitBreaker

	logger logger.Logger
}

// New builds a Client for baseURL (e.g. https://api.api-ninjas.com/v1).
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrBaseURL, baseURL)
	}

	c := &Client{
		baseURL:        u,
		apiKey:         apiKey,
		timeout:        defaultTimeout,
		breakerTimeout: defaultBreakerTimeout,
		newBackoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger, _ = logger.New(io.Discard, logger.FormatText)
	}
	if !c.customHTTP {
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if c.breakerFailures > 0 {
		c.breaker = c.newBreaker()
	}
	return c, nil
}

func (c *Client) newBreaker() *gobreaker.CircuitBreaker {
	threshold := uint32(c.breakerFailures)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// Client-side mistakes and caller cancellations say nothing about upstream health.
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			if apiErr, ok := AsAPIError(err); ok {
				return !apiErr.Temporary()
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, int(to))
			c.logger.Warn(context.Background(), "cats api breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
}

// BaseURL returns the configured upstream root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchCatsByBreed returns the breeds whose name matches breed, starting at offset.
func (c *Client) FetchCatsByBreed(ctx context.Context, breed string, offset int) ([]cat.Cat, error) {
	if strings.TrimSpace(breed) == "" {
		return nil, ErrEmptyBreed
	}
	return c.fetch(ctx, OpBreed, Query{Name: breed, Offset: offset})
}

// FetchCatsListByBreed returns the list view page (min_weight=1) at offset.
func (c *Client) FetchCatsListByBreed(ctx context.Context, offset int) ([]cat.Cat, error) {
	return c.fetch(ctx, OpList, Query{MinWeight: ListMinWeight, Offset: offset})
}

// Fetch runs an arbitrary query against GET /cats.
func (c *Client) Fetch(ctx context.Context, q Query) ([]cat.Cat, error) {
	return c.fetch(ctx, "query", q)
}

func (c *Client) fetch(ctx context.Context, op string, q Query) ([]cat.Cat, error) {
	start := time.Now()

	var cats []cat.Cat
	call := func() error {
		var err error
		cats, err = c.get(ctx, q)
		return err
	}

	var err error
	if c.breaker != nil {
		_, err = c.breaker.Execute(func() (interface{}, error) {
			return nil, c.retry(ctx, op, call)
		})
	} else {
		err = c.retry(ctx, op, call)
	}

	elapsed := time.Since(start)
	outcome := outcomeOf(err)
	metrics.RecordUpstreamRequest(op, outcome, float64(elapsed.Milliseconds()))

	fields := []logger.Field{
		logger.String("op", op),
		logger.String("query", q.Values().Encode()),
		logger.String("outcome", outcome),
		logger.Duration("elapsed", elapsed),
	}
	if err != nil {
		c.logger.Debug(ctx, "cats api call failed", append(fields, logger.Error(err))...)
		return nil, err
	}
	metrics.RecordCatsReturned(op, len(cats))
	c.logger.Debug(ctx, "cats api call", append(fields, logger.Int("count", len(cats)))...)
	return cats, nil
}

// retry runs call until it succeeds, fails permanently, or the retry budget
// is spent. The last error is returned unchanged.
func (c *Client) retry(ctx context.Context, op string, call func() error) error {
	var back backoff.BackOff
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil || attempt >= c.maxRetries || !retryable(ctx, err) {
			return err
		}
		if back == nil {
			back = c.newBackoff()
			back.Reset()
		}
		wait := back.NextBackOff()
		if wait == backoff.Stop {
			return err
		}
		metrics.RecordUpstreamRetry(op)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func (c *Client) get(ctx context.Context, q Query) ([]cat.Cat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildURL(c.baseURL, q), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newTransportError(unwrapTransport(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return nil, newAPIError(resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	cats := []cat.Cat{}
	if err := json.Unmarshal(body, &cats); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if cats == nil {
		cats = []cat.Cat{}
	}
	return cats, nil
}

// unwrapTransport drops the *url.Error net/http wraps around transport failures.
func unwrapTransport(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Temporary()
	}
	return !errors.Is(err, ErrDecode) && !errors.Is(err, gobreaker.ErrOpenState)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsAPIError(err):
		if apiErr, _ := AsAPIError(err); apiErr.NoResponse() {
			return metrics.OutcomeTransport
		}
		return metrics.OutcomeHTTPError
	case errors.Is(err, ErrDecode):
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeTransport
	}
}
