// Package retry re-runs operations that fail transiently, waiting an exponentially
// growing, jittered delay between attempts.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//	    return helper.Deliver(ctx, path)
//	}, retry.WithAttempts(3))
package retry

import (
	"context"
	"errors"
	"time"
)

const (
	defaultAttempts      = 3
	defaultBaseDelay     = 250 * time.Millisecond
	defaultMaxDelay      = 2 * time.Second
	defaultBackoffFactor = 2.0
)

// Option configures Do.
type Option func(*options)

type options struct {
	attempts Attempts
	backoff  Backoff
	jitter   Jitter
	timeout  time.Duration
	onRetry  func(ctx context.Context, attempt uint, err error, delay time.Duration)
}

// WithAttempts sets the total number of calls, the first one included.
// Zero retries until the context ends.
func WithAttempts(a Attempts) Option {
	return func(o *options) {
		o.attempts = a
	}
}

// WithBackoff sets the delay strategy.
func WithBackoff(b Backoff) Option {
	return func(o *options) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithJitter sets how much of each delay is randomized.
func WithJitter(j Jitter) Option {
	return func(o *options) {
		o.jitter = j
	}
}

// WithTimeout bounds every individual attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// OnRetry registers a hook called after each failed attempt that will be retried.
func OnRetry(fn func(ctx context.Context, attempt uint, err error, delay time.Duration)) Option {
	return func(o *options) {
		o.onRetry = fn
	}
}

// Do calls f until it succeeds, returns an Abort error, the attempts run out or
// ctx ends. It returns the last error seen.
func Do(ctx context.Context, f func(ctx context.Context) error, opts ...Option) error {
	o := options{
		attempts: defaultAttempts,
		backoff: ExpBackoff{
			Base:   defaultBaseDelay,
			Max:    defaultMaxDelay,
			Factor: defaultBackoffFactor,
		},
		jitter: EqualJitter,
	}

	for _, opt := range opts {
		opt(&o)
	}

	var err error

	for attempt := uint(0); o.attempts == 0 || Attempts(attempt) < o.attempts; attempt++ {
		err = call(withAttempt(ctx, attempt), f, o.timeout)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.error
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if o.attempts != 0 && Attempts(attempt+1) >= o.attempts {
			break
		}

		delay := o.jitter.apply(o.backoff.Delay(attempt))

		if o.onRetry != nil {
			o.onRetry(ctx, attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}

func call(ctx context.Context, f func(ctx context.Context) error, timeout time.Duration) error {
	if timeout <= 0 {
		return f(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return f(ctx)
}
