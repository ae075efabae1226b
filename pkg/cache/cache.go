package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss    = errors.New("cache: key not found")
	ErrTypeMismatch = errors.New("cache: dest type does not match stored value")
)

// Service defines cache operations interface.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}
