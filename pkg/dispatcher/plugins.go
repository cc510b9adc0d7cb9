package dispatcher

import (
	"fmt"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// Plug attaches a plugin. target may be a registered factory name, a
// plugin.Factory, a plugin.Spec or a plugin.Plugin instance. opts name
// the instance and add settings; for an existing instance the settings
// are merged into its global settings.
//
// A plugin wraps only handlers registered after it is attached.
func (d *Dispatcher) Plug(target any, opts ...plugin.Option) error {
	p, err := d.resolvePlugin(target, opts...)
	if err != nil {
		return err
	}

	if err := d.plugins.Register(p.Name(), p); err != nil {
		if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			return errors.Wrapf(err, errors.ErrDuplicateName, "%s already has a plugin named %s", d.name, p.Name()).
				WithDetail("plugin", p.Name())
		}
		return err
	}

	d.logger.Debug().
		Str("plugin", p.Name()).
		Str("type", fmt.Sprintf("%T", p)).
		Int("position", d.plugins.Count()-1).
		Msg("Plugin attached")
	return nil
}

// MustPlug is Plug for setup code; it panics on error and returns d
func (d *Dispatcher) MustPlug(target any, opts ...plugin.Option) *Dispatcher {
	if err := d.Plug(target, opts...); err != nil {
		panic(err)
	}
	return d
}

func (d *Dispatcher) resolvePlugin(target any, opts ...plugin.Option) (plugin.Plugin, error) {
	switch t := target.(type) {
	case string:
		return d.factories.Build(t, opts...)
	case plugin.Factory:
		return plugin.NewSpec(t, opts...).Build()
	case func(string, map[string]any) (plugin.Plugin, error):
		return plugin.NewSpec(t, opts...).Build()
	case plugin.Spec:
		o := plugin.Collect(opts...)
		spec := plugin.Spec{Factory: t.Factory, Name: t.Name, Settings: make(map[string]any)}
		if o.Name != "" {
			spec.Name = o.Name
		}
		for k, v := range t.Settings {
			spec.Settings[k] = v
		}
		for k, v := range o.Settings {
			spec.Settings[k] = v
		}
		return spec.Build()
	case plugin.Plugin:
		return configureInstance(t, plugin.Collect(opts...))
	case nil:
		return nil, errors.New(errors.ErrInvalidPlugin, "cannot attach a nil plugin")
	default:
		return nil, errors.Newf(errors.ErrInvalidPlugin, "%T is not a plugin", target)
	}
}

func configureInstance(p plugin.Plugin, o plugin.Options) (plugin.Plugin, error) {
	if o.Name != "" && o.Name != p.Name() {
		return nil, errors.Newf(errors.ErrInvalidInput, "cannot rename plugin instance %s to %s", p.Name(), o.Name)
	}
	if len(o.Settings) == 0 {
		return p, nil
	}
	c, ok := p.(plugin.Configurable)
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidPlugin, "plugin %s does not accept settings", p.Name())
	}
	if err := c.UpdateSettings(o.Settings); err != nil {
		return nil, err
	}
	return p, nil
}

// decorate runs the plugin pipeline for one entry: every OnDecorate hook
// in attachment order, then WrapHandler folded in the same order
func (d *Dispatcher) decorate(entry *types.Entry) (types.Func, error) {
	attached := d.plugins.Items()

	for _, p := range attached {
		if err := p.OnDecorate(entry, d); err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginHook, "plugin %s rejected handler %s", p.Name(), entry.Name()).
				WithDetail("plugin", p.Name()).
				WithDetail("handler", entry.Name())
		}
	}

	fn := entry.Func()
	for _, p := range attached {
		fn = p.WrapHandler(d, entry, fn)
		if fn == nil {
			return nil, errors.Newf(errors.ErrInvalidPlugin, "plugin %s returned no handler for %s", p.Name(), entry.Name())
		}
	}
	return fn, nil
}

// Plugin returns the attached plugin called name
func (d *Dispatcher) Plugin(name string) (plugin.Plugin, error) {
	p, err := d.plugins.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrNotFound, "%s has no plugin named %s", d.name, name).
			WithDetail("plugin", name)
	}
	return p, nil
}

// PluginAs returns the attached plugin called name as a T
func PluginAs[T any](d *Dispatcher, name string) (T, error) {
	var zero T
	p, err := d.Plugin(name)
	if err != nil {
		return zero, err
	}
	typed, ok := p.(T)
	if !ok {
		return zero, errors.Newf(errors.ErrInvalidPlugin, "plugin %s is a %T, not a %T", name, p, zero)
	}
	return typed, nil
}

// Plugins returns the attached plugins in attachment order
func (d *Dispatcher) Plugins() []plugin.Plugin {
	return d.plugins.Items()
}

// PluginNames returns the attached plugin names in attachment order
func (d *Dispatcher) PluginNames() []string {
	return d.plugins.Names()
}
