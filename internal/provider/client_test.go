package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt http.RoundTripper) (*Client, *[]time.Duration) {
	limiter := NewRateLimiter(100, 1000)
	testClock(limiter, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	c := NewClient(limiter, 3, 2*time.Second)
	c.httpClient = &http.Client{Transport: rt}
	slept := &[]time.Duration{}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return c, slept
}

func statusResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestClientSucceedsAfterRetryableFailures(t *testing.T) {
	calls := 0
	c, slept := newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls <= 2 {
			return statusResponse(http.StatusTooManyRequests, "rate limited"), nil
		}
		return statusResponse(http.StatusOK, `{"ok":true}`), nil
	}))

	body, err := c.Get(context.Background(), "http://example/prices", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("unexpected payload: %s", body)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	// Two 429s cost baseDelay*2^0 and baseDelay*2^1.
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d backoffs, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("backoff %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}
}

func TestClientExhaustsRetries(t *testing.T) {
	calls := 0
	c, slept := newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return statusResponse(http.StatusTooManyRequests, "rate limited"), nil
	}))

	_, err := c.Get(context.Background(), "http://example/prices", nil)
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected initial attempt plus 3 retries, got %d attempts", calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d backoffs, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("backoff %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}
}

func TestClientServerErrorsAreRetryable(t *testing.T) {
	calls := 0
	c, _ := newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return statusResponse(http.StatusBadGateway, "bad gateway"), nil
		}
		return statusResponse(http.StatusOK, "[]"), nil
	}))

	if _, err := c.Get(context.Background(), "http://example/prices", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected retry after 502, got %d attempts", calls)
	}
}

func TestClientFatalStatusFailsImmediately(t *testing.T) {
	calls := 0
	c, slept := newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return statusResponse(http.StatusNotFound, "no such coin"), nil
	}))

	_, err := c.Get(context.Background(), "http://example/coins/nope", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", statusErr.StatusCode)
	}
	if calls != 1 || len(*slept) != 0 {
		t.Fatalf("404 must not be retried: calls=%d backoffs=%v", calls, *slept)
	}
}

func TestClientRetriesNetworkErrors(t *testing.T) {
	calls := 0
	c, slept := newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("connection refused")
		}
		return statusResponse(http.StatusOK, "{}"), nil
	}))

	if _, err := c.Get(context.Background(), "http://example/prices", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected retry after network error, got %d attempts", calls)
	}
	if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
		t.Fatalf("expected one base-delay backoff, got %v", *slept)
	}
}

func TestClientSetsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	c, _ := newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotUA = req.Header.Get("User-Agent")
		gotAccept = req.Header.Get("Accept")
		return statusResponse(http.StatusOK, "{}"), nil
	}))

	header := make(http.Header)
	header.Set("User-Agent", "cryptopulse/1.0")
	if _, err := c.Get(context.Background(), "http://example", header); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != "cryptopulse/1.0" {
		t.Fatalf("user agent not forwarded, got %q", gotUA)
	}
	if gotAccept != "application/json" {
		t.Fatalf("accept header missing, got %q", gotAccept)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(NewRateLimiter(1, 30), 0, 0)
	if c.maxRetries != 3 || c.baseDelay != 2*time.Second {
		t.Fatalf("unexpected defaults: retries=%d base=%v", c.maxRetries, c.baseDelay)
	}
}
