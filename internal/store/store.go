// Package store provides the TTL key-value store backing the quote cache
// and the receiver volume/referral lookups. Implementations must be safe
// for concurrent use.
package store

import (
	"context"
	"time"
)

// Store is a TTL key-value store. Expired entries are treated as absent;
// implementations may evict lazily.
type Store interface {
	// Get returns the raw value for key, or ok=false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key for ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Clock abstracts time.Now so expiry behavior is testable
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns the current wall time
func (SystemClock) Now() time.Time { return time.Now() }
