package api

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/revlens/revlens/internal/metrics"
)

// RetryConfig defines retry behavior for fetches against the reporting
// endpoint.
type RetryConfig struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // delay before the first retry
	Multiplier float64       // backoff multiplier per retry
	MaxDelay   time.Duration // cap on a single backoff wait
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxRetries: 3,
	BaseDelay:  2 * time.Second,
	Multiplier: 2.0,
	MaxDelay:   60 * time.Second,
}

// DoWithRetry executes op with bounded retries and exponential backoff.
// Non-retryable errors return immediately. Context cancellation is a
// distinct outcome: it aborts the backoff wait, is never retried, and is
// propagated as ctx.Err() rather than a ClassifiedError.
func DoWithRetry[T any](ctx context.Context, cfg RetryConfig, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr *ClassifiedError

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.FetchRetries.Inc()
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoffDelay(cfg, attempt)):
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		// Cancellation of the calling context supersedes classification.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if errors.Is(err, context.Canceled) {
			return zero, context.Canceled
		}

		cerr := Classify(err)
		if !cerr.Retryable {
			return zero, cerr
		}
		lastErr = cerr
	}

	return zero, lastErr
}

// backoffDelay returns baseDelay * multiplier^(attempt-1), capped at
// MaxDelay. attempt is 1-based.
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	base := cfg.BaseDelay
	if base <= 0 {
		base = DefaultRetryConfig.BaseDelay
	}
	mult := cfg.Multiplier
	if mult <= 0 {
		mult = DefaultRetryConfig.Multiplier
	}

	delay := float64(base) * math.Pow(mult, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}
