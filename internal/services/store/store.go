// Package store provides the key-value abstraction backing quota
// counters, the telemetry event log, and the trend snapshot. The
// limiter and ingest services depend only on the KV interface so they
// can be tested against the in-memory implementation.
package store

import (
	"context"
	"time"
)

// KV is the capability surface this service needs from its store:
// integer counters with expiry and plain string blobs with expiry.
type KV interface {
	// GetCount returns the integer value at key, or 0 if the key does
	// not exist.
	GetCount(ctx context.Context, key string) (int64, error)

	// IncrWithTTL atomically increments the counter at key by 1 and
	// returns the new value. The TTL is applied only when the key has
	// no expiry yet, so the window keeps its original deadline.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Get returns the string value at key, or "" if the key does not
	// exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key with the given TTL. A zero TTL means no
	// expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
