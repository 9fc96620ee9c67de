package store

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// RetryConfig controls how failed operations are retried
type RetryConfig struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig is used when no explicit configuration is given
var DefaultRetryConfig = RetryConfig{
	MaxRetries: 3,
	BaseDelay:  50 * time.Millisecond,
	MaxDelay:   time.Second,
}

// Retrying retries failed operations of the wrapped store with exponential backoff.
// ErrNotFound and context cancellation are returned immediately.
type Retrying struct {
	next   Store
	config RetryConfig
	logger *zap.Logger
}

// NewRetrying wraps next
func NewRetrying(next Store, config RetryConfig, logger *zap.Logger) *Retrying {
	return &Retrying{next: next, config: config, logger: logger}
}

func (r *Retrying) backoff() retry.Backoff {
	b := retry.NewExponential(r.config.BaseDelay)
	b = retry.WithCappedDuration(r.config.MaxDelay, b)
	b = retry.WithJitterPercent(10, b)
	return retry.WithMaxRetries(r.config.MaxRetries, b)
}

func (r *Retrying) do(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return err
		}
		r.logger.Warn("Store operation failed, retrying",
			zap.String("op", op),
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return retry.RetryableError(err)
	})
}

func (r *Retrying) Get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	err := r.do(ctx, "get", key, func(ctx context.Context) error {
		var err error
		raw, err = r.next.Get(ctx, key)
		return err
	})
	return raw, err
}

func (r *Retrying) Set(ctx context.Context, key string, value []byte) error {
	return r.do(ctx, "set", key, func(ctx context.Context) error {
		return r.next.Set(ctx, key, value)
	})
}

func (r *Retrying) Remove(ctx context.Context, key string) error {
	return r.do(ctx, "remove", key, func(ctx context.Context) error {
		return r.next.Remove(ctx, key)
	})
}

func (r *Retrying) Close() error {
	return r.next.Close()
}
