package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/abgdnv/productcache/internal/product"
	"github.com/shopspring/decimal"
)

const (
	DefaultTTL    = 10 * time.Minute
	DefaultPrefix = "productCache::"
)

// cachedProduct is the serialized form of a product. The price travels as
// text so both codecs keep it exact.
type cachedProduct struct {
	ID    int64  `json:"id"    msgpack:"id"`
	Name  string `json:"name"  msgpack:"name"`
	Price string `json:"price" msgpack:"price"`
}

// ProductCache stores products in a Cache under "<prefix><id>" for a fixed TTL.
// All failures are returned wrapped as errors.ErrCache.
type ProductCache struct {
	cache  Cache
	codec  Codec[cachedProduct]
	ttl    time.Duration
	prefix string
}

// Options configures a ProductCache. Zero values fall back to the defaults.
type Options struct {
	TTL    time.Duration
	Prefix string
	Codec  string
}

func NewProductCache(c Cache, opts Options) (*ProductCache, error) {
	codec, err := NewCodec[cachedProduct](opts.Codec)
	if err != nil {
		return nil, err
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ProductCache{cache: c, codec: codec, ttl: ttl, prefix: prefix}, nil
}

// Key derives the cache key for a product id.
func (c *ProductCache) Key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}

// TTL is the lifetime of every entry written by Put.
func (c *ProductCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached product for id. A miss is (zero, false, nil).
// An entry that cannot be decoded is evicted and reported as a miss with an error.
func (c *ProductCache) Get(ctx context.Context, id int64) (product.Product, bool, error) {
	key := c.Key(id)
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		return product.Product{}, false, perrors.NewCacheError("get "+key, err)
	}
	if !ok {
		return product.Product{}, false, nil
	}
	p, err := c.decode(raw)
	if err != nil {
		if delErr := c.cache.Delete(ctx, key); delErr != nil {
			err = errors.Join(err, fmt.Errorf("evict corrupt entry: %w", delErr))
		}
		return product.Product{}, false, perrors.NewCacheError("decode "+key, err)
	}
	return p, true, nil
}

// Put writes p under its own id, replacing any previous entry.
func (c *ProductCache) Put(ctx context.Context, p product.Product) error {
	key := c.Key(p.ID)
	raw, err := c.codec.Encode(cachedProduct{ID: p.ID, Name: p.Name, Price: p.Price.String()})
	if err != nil {
		return perrors.NewCacheError("encode "+key, err)
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		return perrors.NewCacheError("put "+key, err)
	}
	return nil
}

// Evict removes the entry for id. Evicting a missing entry succeeds.
func (c *ProductCache) Evict(ctx context.Context, id int64) error {
	key := c.Key(id)
	if err := c.cache.Delete(ctx, key); err != nil {
		return perrors.NewCacheError("evict "+key, err)
	}
	return nil
}

// Ping checks the underlying provider when it supports it.
func (c *ProductCache) Ping(ctx context.Context) error {
	if p, ok := c.cache.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *ProductCache) decode(raw []byte) (product.Product, error) {
	cp, err := c.codec.Decode(raw)
	if err != nil {
		return product.Product{}, err
	}
	price, err := decimal.NewFromString(cp.Price)
	if err != nil {
		return product.Product{}, fmt.Errorf("invalid cached price %q: %w", cp.Price, err)
	}
	if cp.ID <= 0 {
		return product.Product{}, fmt.Errorf("invalid cached id %d", cp.ID)
	}
	return product.Product{ID: cp.ID, Name: cp.Name, Price: price}, nil
}
