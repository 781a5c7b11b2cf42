package retry

import (
	"context"
	"fmt"
	"time"
)

// Do runs op up to attempts times, sequentially, waiting delay between
// attempts. The operation is retried as-is; callers must not mutate captured
// state between attempts. The first success wins; once the budget is spent the
// last error is returned wrapped with the attempt count.
func Do[T any](ctx context.Context, attempts int, delay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)

	if attempts <= 0 {
		return result, fmt.Errorf("retry: invalid attempts %d", attempts)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("retry: %w", err)
		}

		result, lastErr = op(ctx)
		if lastErr == nil {
			return result, nil
		}

		if attempt == attempts || delay == 0 {
			continue
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return result, fmt.Errorf("retry: %w", ctx.Err())
		}
	}

	return result, fmt.Errorf("retry: %d attempts exhausted: %w", attempts, lastErr)
}
