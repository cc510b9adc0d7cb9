package plugin

// Options collects what a caller can specify when attaching a plugin
type Options struct {
	Name     string
	Settings map[string]any
}

// Option customizes Options
type Option func(*Options)

// WithName sets the instance name
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithSettings merges settings into the instance's global settings
func WithSettings(settings map[string]any) Option {
	return func(o *Options) {
		if o.Settings == nil {
			o.Settings = make(map[string]any, len(settings))
		}
		for k, v := range settings {
			o.Settings[k] = v
		}
	}
}

// WithSetting sets a single global setting
func WithSetting(key string, value any) Option {
	return WithSettings(map[string]any{key: value})
}

// Collect applies opts to an empty Options
func Collect(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Spec describes a plugin to build later: a factory plus the name and
// settings to build it with
type Spec struct {
	Factory  Factory
	Name     string
	Settings map[string]any
}

// NewSpec captures factory and opts without building anything
func NewSpec(factory Factory, opts ...Option) Spec {
	o := Collect(opts...)
	return Spec{Factory: factory, Name: o.Name, Settings: o.Settings}
}

// Build instantiates the plugin
func (s Spec) Build() (Plugin, error) {
	return build(s.Factory, s.Name, s.Settings, "spec")
}
