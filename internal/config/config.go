// Host configuration file loader with CUE validation
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the host config omits a value.
const (
	DefaultAdminAddr  = ":8080"
	DefaultPeriod     = 10 * time.Millisecond
	DefaultStateEvery = 100
)

// HostConfig carries settings that are not part of the positional launch
// arguments. Every field is optional.
type HostConfig struct {
	AdminAddr  string       `yaml:"admin_addr"`
	Period     string       `yaml:"period"`
	Seed       int64        `yaml:"seed"`
	StateEvery int          `yaml:"state_every"`
	Helpers    HelperConfig `yaml:"helpers"`
}

// DefaultHostConfig returns a config with all defaults filled in.
func DefaultHostConfig() *HostConfig {
	return &HostConfig{
		AdminAddr:  DefaultAdminAddr,
		Period:     DefaultPeriod.String(),
		StateEvery: DefaultStateEvery,
	}
}

// LoadHost reads a YAML host config and validates it against the embedded
// CUE schema. Missing fields keep their defaults.
func LoadHost(path string) (*HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host config: %w", err)
	}
	if err := ValidateWithCue(data); err != nil {
		return nil, err
	}
	cfg := DefaultHostConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse host config: %w", err)
	}
	if _, err := cfg.TickPeriod(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TickPeriod parses the configured tick period.
func (c *HostConfig) TickPeriod() (time.Duration, error) {
	if c.Period == "" {
		return DefaultPeriod, nil
	}
	d, err := time.ParseDuration(c.Period)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", c.Period, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid period %q: must be positive", c.Period)
	}
	return d, nil
}
