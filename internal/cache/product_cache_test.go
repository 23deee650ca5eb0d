package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/abgdnv/productcache/internal/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is a synchronous Cache used to observe exactly what ProductCache writes.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	err     error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.entries, key)
	return nil
}

func widget(id int64, price string) product.Product {
	return product.Product{ID: id, Name: "Widget", Price: decimal.RequireFromString(price)}
}

func Test_ProductCache_RoundTrip(t *testing.T) {
	for _, codec := range []string{CodecJSON, CodecMsgpack} {
		t.Run(codec, func(t *testing.T) {
			// given
			backend := newMapCache()
			pc, err := NewProductCache(backend, Options{Codec: codec})
			require.NoError(t, err)
			ctx := context.Background()

			// when
			require.NoError(t, pc.Put(ctx, widget(1, "9.99")))
			got, ok, err := pc.Get(ctx, 1)

			// then
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, widget(1, "9.99").Equal(got))
			assert.Contains(t, backend.entries, "productCache::1")
			assert.Equal(t, DefaultTTL, backend.ttls["productCache::1"])
		})
	}
}

func Test_ProductCache_Miss(t *testing.T) {
	pc, err := NewProductCache(newMapCache(), Options{})
	require.NoError(t, err)

	_, ok, err := pc.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_ProductCache_PutOverwrites(t *testing.T) {
	pc, err := NewProductCache(newMapCache(), Options{TTL: time.Minute, Prefix: "p:"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, pc.Put(ctx, widget(1, "9.99")))
	require.NoError(t, pc.Put(ctx, widget(1, "12.50")))
	got, ok, err := pc.Get(ctx, 1)

	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("12.5").Equal(got.Price))
	assert.Equal(t, "p:1", pc.Key(1))
	assert.Equal(t, time.Minute, pc.TTL())
}

func Test_ProductCache_EvictMissingKey(t *testing.T) {
	pc, err := NewProductCache(newMapCache(), Options{})
	require.NoError(t, err)

	assert.NoError(t, pc.Evict(context.Background(), 404))
}

func Test_ProductCache_CorruptEntryIsEvicted(t *testing.T) {
	// given
	backend := newMapCache()
	backend.entries["productCache::1"] = []byte("{not json")
	pc, err := NewProductCache(backend, Options{})
	require.NoError(t, err)

	// when
	_, ok, err := pc.Get(context.Background(), 1)

	// then
	assert.False(t, ok)
	assert.ErrorIs(t, err, perrors.ErrCache)
	assert.NotContains(t, backend.entries, "productCache::1")
}

// deleteFailingCache serves reads from mapCache but refuses every Delete.
type deleteFailingCache struct {
	*mapCache
	deleteErr error
}

func (d *deleteFailingCache) Delete(context.Context, string) error {
	return d.deleteErr
}

func Test_ProductCache_CorruptEntryDeleteFailureIsReported(t *testing.T) {
	// given
	backend := &deleteFailingCache{mapCache: newMapCache(), deleteErr: errors.New("READONLY replica")}
	backend.entries["productCache::1"] = []byte("{not json")
	pc, err := NewProductCache(backend, Options{})
	require.NoError(t, err)

	// when
	_, ok, err := pc.Get(context.Background(), 1)

	// then
	assert.False(t, ok)
	require.ErrorIs(t, err, perrors.ErrCache)
	assert.ErrorIs(t, err, backend.deleteErr)
	assert.Contains(t, err.Error(), "READONLY replica")
	assert.Contains(t, backend.entries, "productCache::1", "entry is still present")
}

func Test_ProductCache_BackendErrors(t *testing.T) {
	backend := newMapCache()
	backend.err = errors.New("connection refused")
	pc, err := NewProductCache(backend, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := pc.Get(ctx, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, perrors.ErrCache)

	assert.ErrorIs(t, pc.Put(ctx, widget(1, "1")), perrors.ErrCache)
	assert.ErrorIs(t, pc.Evict(ctx, 1), perrors.ErrCache)
}

func Test_ProductCache_UnknownCodec(t *testing.T) {
	_, err := NewProductCache(newMapCache(), Options{Codec: "xml"})
	assert.Error(t, err)
}

func Test_Disabled_AlwaysMisses(t *testing.T) {
	pc, err := NewProductCache(Disabled{}, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, pc.Put(ctx, widget(1, "1")))
	_, ok, err := pc.Get(ctx, 1)

	require.NoError(t, err)
	assert.False(t, ok)
}
