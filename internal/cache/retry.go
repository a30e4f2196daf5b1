package cache

import (
	"context"
	"time"
)

// RetryConfig configures exponential backoff when connecting to a backend
type RetryConfig struct {
	MaxAttempts int           // Total attempts, including the first
	BaseDelay   time.Duration // Delay before the second attempt
	MaxDelay    time.Duration // Upper bound on any single delay
	Multiplier  float64       // Growth factor between delays
}

// DefaultRetryConfig covers a Redis container that is still starting
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
		Multiplier:  2,
	}
}

// retryWithBackoff calls fn until it succeeds, attempts run out or ctx is
// cancelled. The last error from fn is returned.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	backoff := cfg.BaseDelay

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * cfg.Multiplier)
			if backoff > cfg.MaxDelay {
				backoff = cfg.MaxDelay
			}
		}
	}
	return lastErr
}
