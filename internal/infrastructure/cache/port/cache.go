package port

import (
	"context"
	"time"
)

// Cache is the key-value store the chat core keeps short-lived read models in,
// currently the per-room last-message previews. Values are plain strings so the
// port stays free of serialization concerns. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the value at key, or ErrMiss when the key is absent. A
	// non-nil error other than ErrMiss means the backend itself failed.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key for ttl. Zero or negative ttl keeps the key
	// until eviction.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Close() error
}

// ErrMiss distinguishes an absent key from a transport failure, so callers can
// fall back to the store without logging noise.
var ErrMiss = errMiss{}

type errMiss struct{}

func (errMiss) Error() string { return "cache: miss" }
