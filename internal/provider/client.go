package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// ErrRetriesExhausted is returned when every retryable attempt failed.
// Callers treat it as "no payload this cycle" and move on.
var ErrRetriesExhausted = errors.New("retries exhausted")

// StatusError is a non-retryable HTTP failure (4xx other than 429).
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Client issues rate-limited GET requests with bounded exponential-backoff
// retries. HTTP 429, 5xx, and transport errors are retried; other non-200
// statuses fail immediately.
type Client struct {
	httpClient *http.Client
	limiter    *RateLimiter
	maxRetries int
	baseDelay  time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient wraps limiter with retry behavior. maxRetries <= 0 and
// baseDelay <= 0 fall back to the defaults (3 retries, 2s base delay).
func NewClient(limiter *RateLimiter, maxRetries int, baseDelay time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepContext,
	}
}

// Get fetches url, waiting on the rate limiter before every attempt.
// header may be nil. The retry schedule is baseDelay * 2^attempt; after
// maxRetries failed retries the call gives up with ErrRetriesExhausted.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.WaitIfNeeded(ctx); err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if retryErr := c.backoff(ctx, attempt, url, err.Error()); retryErr != nil {
				return nil, retryErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				if retryErr := c.backoff(ctx, attempt, url, readErr.Error()); retryErr != nil {
					return nil, retryErr
				}
				continue
			}
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			reason := fmt.Sprintf("status %d", resp.StatusCode)
			if retryErr := c.backoff(ctx, attempt, url, reason); retryErr != nil {
				return nil, retryErr
			}

		default:
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
	}
}

// backoff sleeps out the attempt's delay, or reports exhaustion once the
// retry budget is spent.
func (c *Client) backoff(ctx context.Context, attempt int, url, reason string) error {
	if attempt >= c.maxRetries {
		log.Printf("giving up on %s after %d retries: %s", url, c.maxRetries, reason)
		return fmt.Errorf("%w for %s: %s", ErrRetriesExhausted, url, reason)
	}
	delay := c.baseDelay * (1 << attempt)
	log.Printf("retryable failure for %s (%s), retry %d/%d in %v", url, reason, attempt+1, c.maxRetries, delay)
	return c.sleep(ctx, delay)
}
