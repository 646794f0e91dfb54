package service

import (
	"context"
	"time"

	"mudrex_agent/internal/apierr"
)

// withRetry повторяет fn только при rate_limited; всё остальное (валидация,
// auth, not_found) отдается наверх с первой попытки.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	backoff := c.retryBackoff

	var err error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !apierr.IsRetriable(err) || attempt == c.retryMaxAttempts {
			return err
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return err
}
