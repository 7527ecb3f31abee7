// Package cache holds the listing cache contract and its backends.
//
// A miss is a normal state, not a failure: callers fall through to the
// source of truth and repopulate. Backend errors must never block reads
// or writes of the data the cache summarizes.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss reports that the key holds no live value
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	// Get returns the cached value or ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for at most ttl
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Invalidate drops the key
	// Dropping an absent key is not an error
	Invalidate(ctx context.Context, key string) error
}
