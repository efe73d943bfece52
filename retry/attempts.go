package retry

import "context"

// Attempts is the maximum number of calls Do makes.
type Attempts uint

type ctxKey string

const attemptKey ctxKey = "attempt"

func withAttempt(ctx context.Context, attempt uint) context.Context {
	return context.WithValue(ctx, attemptKey, attempt)
}

// Attempt returns the zero-based attempt number stored by Do, or 0 outside a retry loop.
func Attempt(ctx context.Context) uint {
	if n, ok := ctx.Value(attemptKey).(uint); ok {
		return n
	}

	return 0
}
