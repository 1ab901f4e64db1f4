// Package retry provides one shared bounded-attempts, exponential-backoff
// executor. Both the media downloader and the Instagram two-phase publish
// path go through it instead of carrying their own sleep loops.
package retry

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// Config bounds a retry loop
type Config struct {
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // backoff ceiling
}

// DefaultConfig returns the defaults used for remote media downloads
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

func (c Config) normalized() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 500 * time.Millisecond
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	return c
}

// Do runs fn with bounded retries and exponential backoff. Every error is
// considered retryable; callers that need finer control use DoIf.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoIf(ctx, cfg, fn, func(_ T, err error) bool { return err != nil })
}

// DoIf runs fn with bounded retries, retrying only when shouldRetry reports
// true for the attempt's result.
func DoIf[T any](ctx context.Context, cfg Config, fn func() (T, error), shouldRetry func(T, error) bool) (T, error) {
	cfg = cfg.normalized()

	policy := retrypolicy.NewBuilder[T]().
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(result T, err error) bool {
			return shouldRetry(result, err)
		}).
		Build()

	return failsafe.With(policy).WithContext(ctx).Get(fn)
}
