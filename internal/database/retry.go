package database

import (
	"context"
	"time"

	"github.com/virginearth/survey-backend/pkg/logger"
)

// Retry calls fn up to attempts times, doubling the wait between attempts.
// It tolerates startup races with databases that come up after the service.
func Retry(ctx context.Context, name string, attempts int, backoff time.Duration, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		logger.Warnf("attempt %d/%d: failed to connect to %s: %v", attempt, attempts, name, err)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
