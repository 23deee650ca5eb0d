package config

import (
	"fmt"
	"strings"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	return b.String()
}

func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreDriverPostgres
	}
	if c.Driver != StoreDriverPostgres && c.Driver != StoreDriverMemory {
		return fmt.Errorf("unsupported store driver: %s", c.Driver)
	}
	return nil
}
