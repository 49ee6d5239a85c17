// Package cache stores rendered pages for a fixed time. Writes never invalidate
// entries; readers see fresh data once the TTL lapses.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value cache with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
