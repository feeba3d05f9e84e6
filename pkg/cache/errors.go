package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks backend connection failures and timeouts.
var ErrNetwork = errors.New("network error")

// RetryableError marks a failure worth retrying.
type RetryableError struct{ Err error }

// Retryable wraps err so that [Backoff.Do] retries it. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff describes a bounded exponential retry schedule.
type Backoff struct {
	Attempts int           // total calls, including the first
	Initial  time.Duration // delay before the second call
	Max      time.Duration // upper bound on any single delay
}

// DefaultBackoff is used by [RetryWithBackoff].
var DefaultBackoff = Backoff{Attempts: 3, Initial: 200 * time.Millisecond, Max: 2 * time.Second}

// Do calls fn until it succeeds, returns an error not marked [Retryable],
// runs out of attempts, or ctx is done.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Initial
	var err error
	for i := 0; i < max(b.Attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if b.Max > 0 {
				delay = min(delay, b.Max)
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

// RetryWithBackoff runs fn under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
