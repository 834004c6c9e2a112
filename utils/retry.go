package utils

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to maxRetries times, backing off 2s, 4s, 8s... between
// attempts. Returns nil on the first success, otherwise the last error.
// The context bounds the backoff sleeps so a cancelled request does not
// keep a browser session alive.
func Retry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxRetries {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			Warn("Attempt %d/%d failed: %v, retrying in %v", attempt, maxRetries, lastErr, wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", maxRetries, lastErr)
}
