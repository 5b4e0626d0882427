package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter bounds outbound API calls with two sliding windows: a
// short-burst cap per second and a sustained cap per minute. A call is
// admitted only when both windows have room; otherwise the caller is
// blocked until the oldest tracked call ages out.
type RateLimiter struct {
	mu             sync.Mutex
	callsPerSecond int
	callsPerMinute int
	secondWindow   []time.Time
	minuteWindow   []time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter admitting at most callsPerSecond calls in
// any trailing second and callsPerMinute calls in any trailing minute.
func NewRateLimiter(callsPerSecond, callsPerMinute int) *RateLimiter {
	if callsPerSecond <= 0 {
		callsPerSecond = 1
	}
	if callsPerMinute <= 0 {
		callsPerMinute = 30
	}
	return &RateLimiter{
		callsPerSecond: callsPerSecond,
		callsPerMinute: callsPerMinute,
		secondWindow:   make([]time.Time, 0, callsPerSecond),
		minuteWindow:   make([]time.Time, 0, callsPerMinute),
		now:            time.Now,
		sleep:          sleepContext,
	}
}

// WaitIfNeeded blocks until the next call is permitted, then records it in
// both windows. After waiting out a minute-limit violation both windows are
// cleared rather than recomputed; the limiter assumes a clean slate. A
// second-limit wait clears only the second window.
func (r *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.minuteWindow = pruneWindow(r.minuteWindow, now, time.Minute)
	r.secondWindow = pruneWindow(r.secondWindow, now, time.Second)

	if len(r.minuteWindow) >= r.callsPerMinute {
		wait := time.Minute - now.Sub(r.minuteWindow[0])
		if wait > 0 {
			if err := r.sleep(ctx, wait); err != nil {
				return err
			}
		}
		r.minuteWindow = r.minuteWindow[:0]
		r.secondWindow = r.secondWindow[:0]
	} else if len(r.secondWindow) >= r.callsPerSecond {
		wait := time.Second - now.Sub(r.secondWindow[0])
		if wait > 0 {
			if err := r.sleep(ctx, wait); err != nil {
				return err
			}
		}
		r.secondWindow = r.secondWindow[:0]
	}

	now = r.now()
	r.minuteWindow = append(r.minuteWindow, now)
	r.secondWindow = append(r.secondWindow, now)
	return nil
}

// pruneWindow drops timestamps older than size relative to now, preserving
// order. The slice is reused in place.
func pruneWindow(window []time.Time, now time.Time, size time.Duration) []time.Time {
	cutoff := now.Add(-size)
	i := 0
	for i < len(window) && !window[i].After(cutoff) {
		i++
	}
	if i > 0 {
		copy(window, window[i:])
		window = window[:len(window)-i]
	}
	return window
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
