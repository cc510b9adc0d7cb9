package config

import (
	"sort"

	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/logging"
	"github.com/arthur-debert/switchboard/pkg/plugin"
)

// Apply attaches the configured plugins to d in file order and records
// their per-handler overrides
func Apply(cfg *Config, d *dispatcher.Dispatcher) error {
	logger := logging.GetLogger("config")

	for i, pc := range cfg.Plugins {
		opts := []plugin.Option{plugin.WithSettings(pc.Settings)}
		if pc.Name != "" {
			opts = append(opts, plugin.WithName(pc.Name))
		}
		if err := d.Plug(pc.Use, opts...); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "plugins[%d]: cannot attach %s", i, pc.Use).
				WithDetail("index", i)
		}

		attached := d.Plugins()
		p := attached[len(attached)-1]
		if len(pc.Handlers) == 0 {
			logger.Debug().Str("plugin", p.Name()).Str("dispatcher", d.Name()).Msg("Attached plugin")
			continue
		}

		c, ok := p.(plugin.Configurable)
		if !ok {
			return errors.Newf(errors.ErrConfigValid, "plugins[%d]: %s does not accept handler settings", i, p.Name()).
				WithDetail("index", i)
		}
		names := make([]string, 0, len(pc.Handlers))
		for key := range pc.Handlers {
			names = append(names, key)
		}
		sort.Strings(names)
		for _, handlers := range names {
			if err := c.Configure(handlers, pc.Handlers[handlers]); err != nil {
				return errors.Wrapf(err, errors.ErrConfigValid, "plugins[%d]: handlers %q", i, handlers).
					WithDetail("index", i)
			}
		}
		logger.Debug().
			Str("plugin", p.Name()).
			Str("dispatcher", d.Name()).
			Strs("handlers", names).
			Msg("Attached plugin with handler settings")
	}
	return nil
}

// Build creates a dispatcher named after cfg and applies cfg to it
func Build(cfg *Config, opts ...dispatcher.Option) (*dispatcher.Dispatcher, error) {
	d := dispatcher.New(cfg.Name, opts...)
	if err := Apply(cfg, d); err != nil {
		return nil, err
	}
	return d, nil
}
