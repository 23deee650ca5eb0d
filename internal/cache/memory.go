package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/maypok86/otter/v2"
)

// memoryEntry wraps a cached value with its expiration time.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process W-TinyLFU cache backed by otter.
// It never returns errors.
type Memory struct {
	cache *otter.Cache[string, memoryEntry]
}

// NewMemory creates an in-memory cache with the given max entry count.
// maxTTL bounds how long otter keeps any entry; each entry also carries its own TTL.
func NewMemory(maxSize int, maxTTL time.Duration) (*Memory, error) {
	c, err := otter.New[string, memoryEntry](&otter.Options[string, memoryEntry]{
		MaximumSize:      maxSize,
		ExpiryCalculator: otter.ExpiryWriting[string, memoryEntry](maxTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %w", err)
	}
	return &Memory{cache: c}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.cache.GetIfPresent(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		m.cache.Invalidate(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{data: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.cache.Set(key, e)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.cache.Invalidate(key)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
