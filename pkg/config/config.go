package config

import (
	"github.com/arthur-debert/switchboard/pkg/errors"
)

// Config is the loaded configuration
type Config struct {
	Name    string         `koanf:"name" yaml:"name" json:"name"`
	Log     LogConfig      `koanf:"log" yaml:"log" json:"log"`
	Plugins []PluginConfig `koanf:"plugins" yaml:"plugins" json:"plugins"`
}

// LogConfig controls pkg/logging
type LogConfig struct {
	Verbosity int `koanf:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// PluginConfig attaches one plugin. Use is the factory name; Name
// optionally renames the instance. Handlers maps comma-joined handler
// names to override settings.
type PluginConfig struct {
	Use      string                    `koanf:"use" yaml:"use" json:"use"`
	Name     string                    `koanf:"name" yaml:"name" json:"name"`
	Settings map[string]interface{}    `koanf:"settings" yaml:"settings" json:"settings"`
	Handlers map[string]map[string]any `koanf:"handlers" yaml:"handlers" json:"handlers"`
}

// Validate checks values the loader cannot
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrConfigValid, "name must not be empty")
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "log.verbosity must be >= 0, got %d", c.Log.Verbosity).
			WithDetail("field", "log.verbosity")
	}
	for i, p := range c.Plugins {
		if p.Use == "" {
			return errors.Newf(errors.ErrConfigValid, "plugins[%d]: use must name a plugin factory", i).
				WithDetail("field", "use").
				WithDetail("index", i)
		}
	}
	return nil
}
