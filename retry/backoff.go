package retry

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes the delay before the retry following a zero-based attempt.
type Backoff interface {
	Delay(attempt uint) time.Duration
}

// ExpBackoff grows the delay as Base * Factor^attempt, clamped to [Base, Max].
type ExpBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

func (b ExpBackoff) Delay(attempt uint) time.Duration {
	d := time.Duration(float64(b.Base) * math.Pow(b.Factor, float64(attempt)))

	switch {
	case d < b.Base:
		return b.Base
	case d > b.Max:
		return b.Max
	default:
		return d
	}
}

// Constant waits the same delay before every retry.
type Constant time.Duration

func (c Constant) Delay(uint) time.Duration {
	return time.Duration(c)
}

// Jitter is the fraction of a delay that is randomized. 1 picks uniformly in
// [0, delay]; 0.5 keeps half the delay fixed; negative values disable jitter.
type Jitter float64

const (
	EqualJitter   Jitter = 0.5
	FullJitter    Jitter = 1.0
	WithoutJitter Jitter = -1.0
)

func (j Jitter) apply(d time.Duration) time.Duration {
	if j <= 0 {
		return d
	}

	r := rand.Float64() * float64(d) //nolint:gosec // Jitter needs no cryptographic randomness

	if j < 1 {
		r = float64(j)*r + float64(1-j)*float64(d)
	}

	return time.Duration(r)
}
