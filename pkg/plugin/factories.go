package plugin

import (
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/registry"
)

// Registration is a named factory together with its documentation
type Registration struct {
	Name    string
	Factory Factory
	Summary string
	// Doc is markdown shown by `switchboard plugins --long`
	Doc string
}

// Registry maps plugin names to factories
type Registry struct {
	entries registry.Registry[Registration]
}

// NewRegistry creates an empty factory registry
func NewRegistry() *Registry {
	return &Registry{entries: registry.New[Registration]("plugin factory")}
}

// Register adds a factory under reg.Name
func (r *Registry) Register(reg Registration) error {
	if reg.Factory == nil {
		return errors.Newf(errors.ErrInvalidPlugin, "plugin factory %s is nil", reg.Name)
	}
	return r.entries.Register(reg.Name, reg)
}

// Lookup returns the registration for name
func (r *Registry) Lookup(name string) (Registration, error) {
	reg, err := r.entries.Get(name)
	if err != nil {
		return Registration{}, errors.Wrapf(err, errors.ErrInvalidPlugin, "unknown plugin name %q", name).
			WithDetail("name", name)
	}
	return reg, nil
}

// Build instantiates the factory registered as factoryName
func (r *Registry) Build(factoryName string, opts ...Option) (Plugin, error) {
	reg, err := r.Lookup(factoryName)
	if err != nil {
		return nil, err
	}
	o := Collect(opts...)
	return build(reg.Factory, o.Name, o.Settings, factoryName)
}

// Names lists registered factory names, sorted
func (r *Registry) Names() []string {
	return r.entries.List()
}

// Registrations lists all registrations sorted by name
func (r *Registry) Registrations() []Registration {
	names := r.entries.List()
	out := make([]Registration, 0, len(names))
	for _, name := range names {
		if reg, err := r.entries.Get(name); err == nil {
			out = append(out, reg)
		}
	}
	return out
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide factory registry
func Default() *Registry { return defaultRegistry }

// RegisterFactory adds a factory to the process-wide registry
func RegisterFactory(name string, factory Factory, summary string) error {
	return defaultRegistry.Register(Registration{Name: name, Factory: factory, Summary: summary})
}

// MustRegister adds reg to the process-wide registry and panics on
// failure. Bundled plugin packages call it from init.
func MustRegister(reg Registration) {
	if err := defaultRegistry.Register(reg); err != nil {
		panic(err)
	}
}

// Factories lists the names in the process-wide registry
func Factories() []string {
	return defaultRegistry.Names()
}

func build(factory Factory, name string, settings map[string]any, source string) (Plugin, error) {
	if factory == nil {
		return nil, errors.Newf(errors.ErrInvalidPlugin, "plugin %s has no factory", source)
	}
	p, err := factory(name, settings)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidPlugin, "failed to build plugin %s", source)
	}
	if p == nil {
		return nil, errors.Newf(errors.ErrInvalidPlugin, "factory %s returned no plugin", source)
	}
	if p.Name() == "" {
		return nil, errors.Newf(errors.ErrInvalidPlugin, "plugin built by %s has no name", source)
	}
	return p, nil
}
