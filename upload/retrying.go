package upload

import (
	"context"
	"errors"
	"time"

	"github.com/amp-labs/easyapply/logger"
	"github.com/amp-labs/easyapply/retry"
)

// Retrying re-delivers a path when the wrapped Deliverer fails, for helpers that
// race the file picker opening. A missing path is never retried.
func Retrying(d Deliverer, opts ...retry.Option) Deliverer {
	return Func(func(ctx context.Context, path string) error {
		opts := append([]retry.Option{
			retry.OnRetry(func(ctx context.Context, attempt uint, err error, delay time.Duration) {
				logger.Get(ctx).Warn("Upload helper failed, retrying",
					"attempt", attempt+1, "delay", delay, "error", err)
			}),
		}, opts...)

		return retry.Do(ctx, func(ctx context.Context) error {
			err := d.Deliver(ctx, path)
			if errors.Is(err, ErrNoPath) {
				return retry.Abort(err)
			}

			return err
		}, opts...)
	})
}
