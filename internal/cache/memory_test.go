package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	t.Parallel()
	m, err := NewMemory(100, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "should not find missing key")

	require.NoError(t, m.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.Eventually(t, func() bool {
		_, ok, _ := m.Get(ctx, "k1")
		return ok
	}, time.Second, 10*time.Millisecond, "should find k1")

	val, _, _ := m.Get(ctx, "k1")
	assert.Equal(t, "v1", string(val))

	require.NoError(t, m.Delete(ctx, "k1"))
	_, ok, _ = m.Get(ctx, "k1")
	assert.False(t, ok, "should not find deleted key")

	assert.NoError(t, m.Delete(ctx, "never-set"), "deleting a missing key is a no-op")
}

func TestMemory_TTLExpiry(t *testing.T) {
	t.Parallel()
	m, err := NewMemory(100, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "expiring", []byte("data"), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	_, ok, err := m.Get(ctx, "expiring")
	require.NoError(t, err)
	assert.False(t, ok, "entry should be expired")
}

func TestMemory_NonPositiveTTLNeverExpires(t *testing.T) {
	t.Parallel()
	m, err := NewMemory(100, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "zero", []byte("a"), 0))
	require.NoError(t, m.Set(ctx, "negative", []byte("b"), -time.Second))
	time.Sleep(20 * time.Millisecond)

	for key, want := range map[string]string{"zero": "a", "negative": "b"} {
		val, ok, err := m.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, "%s entry should not expire", key)
		assert.Equal(t, want, string(val))
	}
}

func TestMemory_BehindProductCache(t *testing.T) {
	t.Parallel()
	m, err := NewMemory(100, time.Hour)
	require.NoError(t, err)
	pc, err := NewProductCache(m, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, pc.Put(ctx, widget(7, "3.25")))
	require.Eventually(t, func() bool {
		got, ok, err := pc.Get(ctx, 7)
		return err == nil && ok && got.Equal(widget(7, "3.25"))
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, pc.Evict(ctx, 7))
	_, ok, err := pc.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}
