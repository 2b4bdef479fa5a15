// Package cache holds serialized read results for the listing endpoints.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get reports ok=false on a miss. A non-nil error means the backend failed.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix and returns how many went.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Incr bumps a non-expiring counter and returns its new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Counter reads a counter written by Incr; a missing counter is 0.
	Counter(ctx context.Context, key string) (int64, error)
}
