package statemachine

import (
	"context"
	"math/rand"
	"time"
)

// Pacer decides how long to pause after a committed transition and performs the pause.
type Pacer interface {
	// Pause blocks for the next delay or until ctx is done. It returns the delay
	// it aimed for and ctx.Err() if the wait was cut short.
	Pause(ctx context.Context) (time.Duration, error)
}

// UniformPacer pauses for a duration drawn uniformly from [Min, Max].
type UniformPacer struct {
	Min time.Duration
	Max time.Duration
}

// DefaultPacer mimics a human moving between screens.
//
//nolint:gochecknoglobals
var DefaultPacer = UniformPacer{Min: 4100 * time.Millisecond, Max: 6600 * time.Millisecond}

// Next returns the next delay without sleeping.
func (p UniformPacer) Next() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}

	//nolint:gosec // G404: pacing jitter does not need crypto/rand
	return p.Min + time.Duration(rand.Int63n(int64(p.Max-p.Min)+1))
}

func (p UniformPacer) Pause(ctx context.Context) (time.Duration, error) {
	d := p.Next()

	return d, sleepCtx(ctx, d)
}

// Fixed pauses for exactly its own duration.
type Fixed time.Duration

func (f Fixed) Pause(ctx context.Context) (time.Duration, error) {
	d := time.Duration(f)

	return d, sleepCtx(ctx, d)
}

// NoPacing never pauses. Useful in tests.
//
//nolint:gochecknoglobals
var NoPacing Pacer = Fixed(0)

func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
