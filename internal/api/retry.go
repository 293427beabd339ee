package api

import (
	"context"
	"errors"
	"time"
)

type rateLimitError struct {
	body string
}

func (e *rateLimitError) Error() string { return "rate limited: " + e.body }

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// exponentialBackoff waits 1s, 2s, 4s, ... between attempts.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func retryWithBackoff(ctx context.Context, maxRetries int, backoff func(int) time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// Only rate limits are retried
		var rl *rateLimitError
		if !errors.As(lastErr, &rl) {
			return lastErr
		}

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}
	}
	return lastErr
}
