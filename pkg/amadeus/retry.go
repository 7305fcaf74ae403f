package amadeus

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to maxAttempts times, sleeping delay*attempt*attempt
// between attempts. It stops early when ctx is cancelled.
func Retry(ctx context.Context, maxAttempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt < maxAttempts {
			backoff := delay * time.Duration(attempt*attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
