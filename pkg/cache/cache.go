package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Store holds JSON-encoded values under string keys.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// Locker is a best-effort mutual exclusion keyed by name. A lock taken with
// TryLock expires on its own after ttl if never released.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Service is the cache used by the series loader and the training lock.
type Service interface {
	Store
	Locker
	Close() error
}

// Fetch returns the cached value under key, or calls load and caches its
// result for ttl. Cache failures other than a miss are reported through
// onErr and never fail the call.
func Fetch[T any](ctx context.Context, c Store, key string, ttl time.Duration, load func(context.Context) (T, error), onErr func(error)) (T, error) {
	var v T
	err := c.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrCacheMiss) && onErr != nil {
		onErr(err)
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil && onErr != nil {
		onErr(err)
	}
	return v, nil
}
