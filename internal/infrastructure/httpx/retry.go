// Package httpx provides the shared retry and request-pacing policies used
// by the remote API adapters.
package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// RetryPolicy is an explicit retry policy: how many attempts to make, how
// long to wait between them, and which HTTP status codes are worth retrying.
type RetryPolicy struct {
	// MaxAttempts is the total attempt ceiling, including the first try
	MaxAttempts int
	// Backoff returns the delay before the given retry (attempt is 1-based)
	Backoff func(attempt int) time.Duration
	// Retryable reports whether a status code is a transient failure
	Retryable func(status int) bool
}

// DetailRetryPolicy is the policy for single-resource detail fetches:
// three attempts, linear backoff scaled by the base delay, retrying only
// transient server responses (500/503).
func DetailRetryPolicy(base time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * base
		},
		Retryable: func(status int) bool {
			return status == http.StatusInternalServerError || status == http.StatusServiceUnavailable
		},
	}
}

// ShouldRetry reports whether another attempt is allowed for the status.
func (p RetryPolicy) ShouldRetry(attempt, status int) bool {
	return attempt < p.MaxAttempts && p.Retryable != nil && p.Retryable(status)
}

// Sleep waits for the policy's backoff before the next attempt, returning
// early if the context is cancelled.
func (p RetryPolicy) Sleep(ctx context.Context, attempt int) error {
	if p.Backoff == nil {
		return nil
	}
	return sleep(ctx, p.Backoff(attempt))
}

// RetryAfter parses a Retry-After header value in seconds, falling back to
// the given default when the header is absent or malformed.
func RetryAfter(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
