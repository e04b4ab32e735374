// Package cache stores rendered GET responses. A cache is advisory: callers
// treat every error as a miss and carry on against the database.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value store with per-key expiry.
type Store interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
