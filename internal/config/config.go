package config

import (
	"strings"

	"github.com/abgdnv/productcache/pkg/config"
	"github.com/abgdnv/productcache/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Store      config.StoreConfig      `koanf:"store"`
	Cache      config.CacheConfig      `koanf:"cache"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Store.String())
	if c.Store.Driver == config.StoreDriverPostgres {
		b.WriteString(c.Database.String())
	}
	b.WriteString(c.Cache.String())
	if c.Cache.Provider == config.CacheProviderRedis {
		b.WriteString(c.Resilience.String())
	}
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// Database settings are only required when products are kept in Postgres.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Store,
		&c.Cache,
		&c.Resilience,
		&c.Log,
		&c.PProf,
		&c.GRPC,
		&c.Telemetry,
		&c.Shutdown,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Store.Driver == config.StoreDriverPostgres {
		return c.Database.Validate()
	}
	return nil
}
