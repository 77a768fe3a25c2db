// Package cache provides the short-lived result cache used by the ranking
// engine. Values are ordered article identifier lists; insertion order is
// the rank. The cache is a pure accelerator: every implementation must make
// Get cheap and safe to call concurrently, and callers treat any error as a
// miss so a cache outage degrades to recomputation.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ResultCache interface {
	// Get returns the cached ordered identifier list for key, or ok=false on
	// a miss. Implementations must not block on anything but the cache
	// backend itself.
	Get(ctx context.Context, key string) (ids []uuid.UUID, ok bool, err error)

	// Put stores ids under key for ttl. Last writer wins on concurrent puts
	// for the same key; the value is idempotent within the TTL window.
	Put(ctx context.Context, key string, ids []uuid.UUID, ttl time.Duration) error
}
