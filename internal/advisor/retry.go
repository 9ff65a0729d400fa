package advisor

import (
	"context"
	"time"
)

// Retry defaults: two extra attempts starting at 2s, growing by 1.5x.
const (
	DefaultRetries    = 2
	DefaultRetryDelay = 2000 * time.Millisecond
	retryMultiplier   = 1.5
)

// RetryOptions configures WithRetry. The zero value means defaults.
type RetryOptions struct {
	// Retries is the number of additional attempts after the first.
	Retries int
	// Delay is the wait before the first retry; it grows by 1.5x per
	// attempt.
	Delay time.Duration
	// Sleep is injectable for deterministic tests. Defaults to a
	// context-aware timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.Retries == 0 {
		o.Retries = DefaultRetries
	}
	if o.Delay == 0 {
		o.Delay = DefaultRetryDelay
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	return o
}

// WithRetry invokes op, retrying only on the quota-exhaustion signature
// (see IsQuotaExceeded) with exponential backoff. Any other error
// propagates unchanged on the first failure. At most Retries+1 attempts
// are made; the success value passes through untouched.
//
// Implemented as an explicit loop so the backoff schedule is bounded and
// testable.
func WithRetry[T any](ctx context.Context, opts RetryOptions, op func(context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()
	delay := opts.Delay

	var zero T
	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !IsQuotaExceeded(err) || attempt >= opts.Retries {
			return zero, err
		}
		if serr := opts.Sleep(ctx, delay); serr != nil {
			return zero, serr
		}
		delay = time.Duration(float64(delay) * retryMultiplier)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
