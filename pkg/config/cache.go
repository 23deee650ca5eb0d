package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	CacheProviderRedis  = "redis"
	CacheProviderMemory = "memory"
	CacheProviderNone   = "none"
)

const (
	defaultCacheTTL     = 10 * time.Minute
	defaultCachePrefix  = "productCache::"
	defaultCacheCodec   = "json"
	defaultMemoryMax    = 10_000
	defaultRedisTimeout = 500 * time.Millisecond
)

type CacheConfig struct {
	Provider string            `koanf:"provider"`
	TTL      time.Duration     `koanf:"ttl"`
	Prefix   string            `koanf:"prefix"`
	Codec    string            `koanf:"codec"`
	Redis    RedisConfig       `koanf:"redis"`
	Memory   MemoryCacheConfig `koanf:"memory"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Timeout  time.Duration `koanf:"timeout"`
}

type MemoryCacheConfig struct {
	MaxSize int `koanf:"maxsize"`
}

// String returns a string representation of the cache configuration.
func (c *CacheConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Cache ---\n")
	b.WriteString(fmt.Sprintf("  provider: %s\n", c.Provider))
	b.WriteString(fmt.Sprintf("  ttl: %s\n", c.TTL))
	b.WriteString(fmt.Sprintf("  prefix: %s\n", c.Prefix))
	b.WriteString(fmt.Sprintf("  codec: %s\n", c.Codec))
	switch c.Provider {
	case CacheProviderRedis:
		b.WriteString(fmt.Sprintf("  redis.addr: %s\n", c.Redis.Addr))
		b.WriteString(fmt.Sprintf("  redis.db: %d\n", c.Redis.DB))
		b.WriteString(fmt.Sprintf("  redis.password set: %t\n", c.Redis.Password != ""))
		b.WriteString(fmt.Sprintf("  redis.timeout: %s\n", c.Redis.Timeout))
	case CacheProviderMemory:
		b.WriteString(fmt.Sprintf("  memory.maxsize: %d\n", c.Memory.MaxSize))
	}
	return b.String()
}

// Validate fills in defaults and checks the provider settings.
func (c *CacheConfig) Validate() error {
	if c.Provider == "" {
		c.Provider = CacheProviderRedis
	}
	if c.TTL == 0 {
		c.TTL = defaultCacheTTL
	}
	if c.Prefix == "" {
		c.Prefix = defaultCachePrefix
	}
	if c.Codec == "" {
		c.Codec = defaultCacheCodec
	}
	if c.TTL < 0 {
		return fmt.Errorf("cache ttl must be greater than 0")
	}
	if c.Codec != "json" && c.Codec != "msgpack" {
		return fmt.Errorf("unsupported cache codec: %s", c.Codec)
	}
	switch c.Provider {
	case CacheProviderRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is not configured")
		}
		if c.Redis.Timeout <= 0 {
			c.Redis.Timeout = defaultRedisTimeout
		}
	case CacheProviderMemory:
		if c.Memory.MaxSize <= 0 {
			c.Memory.MaxSize = defaultMemoryMax
		}
	case CacheProviderNone:
	default:
		return fmt.Errorf("unsupported cache provider: %s", c.Provider)
	}
	return nil
}
