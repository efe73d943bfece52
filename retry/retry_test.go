package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func fast() Option {
	return WithBackoff(Constant(time.Millisecond))
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	var (
		calls    int
		attempts []uint
		retried  []uint
	)

	err := Do(t.Context(), func(ctx context.Context) error {
		calls++

		attempts = append(attempts, Attempt(ctx))

		if calls < 3 {
			return errFlaky
		}

		return nil
	}, fast(), WithAttempts(5), OnRetry(func(_ context.Context, attempt uint, err error, _ time.Duration) {
		assert.ErrorIs(t, err, errFlaky)

		retried = append(retried, attempt)
	}))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []uint{0, 1, 2}, attempts)
	assert.Equal(t, []uint{0, 1}, retried)
}

func TestDoReturnsLastError(t *testing.T) {
	t.Parallel()

	var calls int

	err := Do(t.Context(), func(context.Context) error {
		calls++

		return errFlaky
	}, fast(), WithAttempts(3))

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls)
}

func TestDoAbortStopsImmediately(t *testing.T) {
	t.Parallel()

	var calls int

	err := Do(t.Context(), func(context.Context) error {
		calls++

		return Abort(errFlaky)
	}, fast(), WithAttempts(5))

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, calls)
	assert.NoError(t, Abort(nil))
}

func TestDoStopsWhenContextEnds(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	var calls int

	err := Do(ctx, func(context.Context) error {
		calls++

		cancel()

		return errFlaky
	}, WithBackoff(Constant(time.Hour)), WithAttempts(0))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoTimesOutEachAttempt(t *testing.T) {
	t.Parallel()

	var calls int

	err := Do(t.Context(), func(ctx context.Context) error {
		calls++

		<-ctx.Done()

		return ctx.Err()
	}, fast(), WithAttempts(2), WithTimeout(5*time.Millisecond))

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
}

func TestExpBackoff(t *testing.T) {
	t.Parallel()

	b := ExpBackoff{Base: 100 * time.Millisecond, Max: time.Second, Factor: 2}

	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 200*time.Millisecond, b.Delay(1))
	assert.Equal(t, 800*time.Millisecond, b.Delay(3))
	assert.Equal(t, time.Second, b.Delay(4))
	assert.Equal(t, 100*time.Millisecond, ExpBackoff{Base: 100 * time.Millisecond, Max: time.Second, Factor: 0.5}.Delay(2))
}

func TestJitter(t *testing.T) {
	t.Parallel()

	d := 100 * time.Millisecond

	assert.Equal(t, d, WithoutJitter.apply(d))

	for range 50 {
		full := FullJitter.apply(d)
		assert.GreaterOrEqual(t, full, time.Duration(0))
		assert.LessOrEqual(t, full, d)

		equal := EqualJitter.apply(d)
		assert.GreaterOrEqual(t, equal, d/2)
		assert.LessOrEqual(t, equal, d)
	}
}
