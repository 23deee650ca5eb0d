// Package cache provides the key-value cache used in front of the product store:
// byte-level providers (Redis, in-process otter, disabled), a circuit breaker
// wrapper and the typed ProductCache.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-level key-value store with per-entry TTL.
// A missing key is reported as (nil, false, nil), never as an error.
// Every operation is atomic per key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A non-positive ttl stores it without expiry,
	// though a provider may still evict it for capacity.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by providers that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Disabled is a Cache that stores nothing. Every Get is a miss.
type Disabled struct{}

func (Disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Disabled) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Disabled) Delete(context.Context, string) error { return nil }
