// Package config is used to load the configuration file
package config

import (
	"fmt"

	"github.com/blacktop/introspect/pkg/arch"
	"github.com/spf13/viper"
)

type symbols struct {
	LoadAddress uint64 `mapstructure:"load-address"`
	Defined     bool   `mapstructure:"defined"`
	Limit       int    `mapstructure:"limit"`
}

// Config is the configuration struct
type Config struct {
	Arch    string  `mapstructure:"arch"`
	Symbols symbols `mapstructure:"symbols"`

	arch *arch.Config
}

func (c *Config) verify() error {
	if c.Arch == "" {
		c.arch = arch.Current()
	} else {
		cfg, err := arch.Lookup(c.Arch)
		if err != nil {
			return fmt.Errorf("config: %v", err)
		}
		c.arch = cfg
	}
	if c.Symbols.Limit < 0 {
		return fmt.Errorf("config: symbols.limit must not be negative (got %d)", c.Symbols.Limit)
	}
	return nil
}

// Target returns the architecture configuration selected by Arch, or the
// host's when Arch is empty.
func (c *Config) Target() *arch.Config {
	if c.arch == nil {
		return arch.Current()
	}
	return c.arch
}

// Load reads the configuration out of v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return &c, nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}
