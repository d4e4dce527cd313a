package dex

import (
	"context"
	"time"
)

// RetryPolicy bounds the exponential backoff used for RPC reads.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 100 * time.Millisecond
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = 0
	}
	return p
}

// withRetry calls fn until it succeeds, the retries run out or ctx ends.
// onRetry, if set, sees each failed attempt before the wait.
func withRetry(ctx context.Context, policy RetryPolicy, fn func(context.Context) error, onRetry func(attempt int, err error)) error {
	policy = policy.normalized()

	delay := policy.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= policy.MaxRetries {
			return err
		}
		if onRetry != nil {
			onRetry(attempt+1, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
}
