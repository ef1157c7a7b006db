package connector

import (
	"context"
	"time"
)

func retryConnect(ctx context.Context, opts RetryConfig, connectFn func(context.Context) (Connection, error)) (Connection, error) {
	var err error
	var conn Connection

	attempts := opts.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	delay := opts.BaseDelay
	if delay == 0 {
		delay = time.Second
	}
	backoff := opts.Backoff
	if backoff < 1 {
		backoff = 2
	}

	for i := 0; i < attempts; i++ {
		conn, err = connectFn(ctx)
		if err == nil {
			return conn, nil
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
			delay = time.Duration(float64(delay) * backoff)
			if opts.MaxDelay > 0 && delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}
	}
	return nil, err
}
