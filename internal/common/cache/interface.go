package cache

import (
	"context"
	"time"
)

// Cache is the string store behind the combo lists. A nil Cache is valid
// wherever the helpers in this package accept one and disables caching.
type Cache interface {
	// Get returns "" and a nil error for a missing key.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value; a zero ttl never expires.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
