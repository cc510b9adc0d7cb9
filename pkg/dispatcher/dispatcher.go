package dispatcher

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/logging"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/registry"
	"github.com/arthur-debert/switchboard/pkg/rules"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// Dispatcher holds named handlers, the rules that route to them, the
// plugins that wrap them and the child dispatchers linked below it
type Dispatcher struct {
	name string

	mu          sync.RWMutex
	handlers    map[string]types.Func
	entries     map[string]*types.Entry
	fallback    types.Func
	defaultName string

	rules     *rules.Matcher[types.Func]
	plugins   registry.Registry[plugin.Plugin]
	children  registry.Registry[*Dispatcher]
	factories *plugin.Registry
	logger    zerolog.Logger
}

// Option configures a Dispatcher at construction
type Option func(*Dispatcher)

// WithFactories resolves plugin names against reg instead of the
// process-wide factory registry
func WithFactories(reg *plugin.Registry) Option {
	return func(d *Dispatcher) {
		if reg != nil {
			d.factories = reg
		}
	}
}

// WithLogger replaces the component logger
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger.With().Str("dispatcher", d.name).Logger()
	}
}

// New creates an empty dispatcher
func New(name string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		name:      name,
		handlers:  make(map[string]types.Func),
		entries:   make(map[string]*types.Entry),
		rules:     rules.NewMatcher[types.Func](),
		plugins:   registry.New[plugin.Plugin]("plugin"),
		children:  registry.New[*Dispatcher]("child"),
		factories: plugin.Default(),
	}
	d.logger = logging.GetLogger("dispatcher").With().Str("dispatcher", name).Logger()
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the dispatcher name
func (d *Dispatcher) Name() string { return d.name }

// RegisterDefault registers h by name and as the handler the resolver
// falls back to when no rule matches. A later default replaces it.
func (d *Dispatcher) RegisterDefault(h types.Handler) (types.Func, error) {
	return d.register(h, rules.Rule{}, true)
}

// RegisterWithRule returns a registration function that guards the
// handler with rule. Rules are consulted in registration order.
func (d *Dispatcher) RegisterWithRule(rule rules.Rule) func(types.Handler) (types.Func, error) {
	return func(h types.Handler) (types.Func, error) {
		return d.register(h, rule, false)
	}
}

// Register registers h by name only; the resolver never routes to it
func (d *Dispatcher) Register(h types.Handler) (types.Func, error) {
	final, _, err := d.registerNamed(h, rules.Rule{})
	return final, err
}

func (d *Dispatcher) register(h types.Handler, rule rules.Rule, asDefault bool) (types.Func, error) {
	final, entry, err := d.registerNamed(h, rule)
	if err != nil {
		return nil, err
	}

	if asDefault {
		d.mu.Lock()
		d.fallback = final
		d.defaultName = h.Name
		d.mu.Unlock()
		d.logger.Debug().Str("handler", h.Name).Msg("Default handler registered")
		return final, nil
	}

	// Earlier rules under the same name stay in the list.
	d.rules.Add(h.Name, entry.Predicate(), final)
	return final, nil
}

func (d *Dispatcher) registerNamed(h types.Handler, rule rules.Rule) (types.Func, *types.Entry, error) {
	if err := h.Validate(); err != nil {
		return nil, nil, err
	}

	entry := types.NewEntry(h, rule)
	final, err := d.decorate(entry)
	if err != nil {
		d.logger.Debug().Err(err).Str("handler", h.Name).Msg("Registration aborted")
		return nil, nil, err
	}

	d.mu.Lock()
	_, replaced := d.handlers[h.Name]
	d.handlers[h.Name] = final
	d.entries[h.Name] = entry
	d.mu.Unlock()

	d.logger.Debug().
		Str("handler", h.Name).
		Int("params", len(h.Params)).
		Bool("replaced", replaced).
		Msg("Handler registered")
	return final, entry, nil
}

func (d *Dispatcher) entry(name string) *types.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries[name]
}

// Get returns the wrapped handler registered as name
func (d *Dispatcher) Get(name string) (types.Func, error) {
	d.mu.RLock()
	fn, ok := d.handlers[name]
	d.mu.RUnlock()

	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "%s has no handler named %s", d.name, name).
			WithDetail("dispatcher", d.name).
			WithDetail("handler", name)
	}
	return fn, nil
}

// Entry returns the registration record of name
func (d *Dispatcher) Entry(name string) (*types.Entry, error) {
	if e := d.entry(name); e != nil {
		return e, nil
	}
	return nil, errors.Newf(errors.ErrNotFound, "%s has no handler named %s", d.name, name).
		WithDetail("dispatcher", d.name).
		WithDetail("handler", name)
}

// HandlerNames lists registered handler names, sorted
func (d *Dispatcher) HandlerNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultName returns the name of the default handler, if any
func (d *Dispatcher) DefaultName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.defaultName
}

// MakeDispatcher returns the automatic resolver: it calls the first
// handler whose rule accepts the call, else the default handler, else
// fails with ErrNoMatch
func (d *Dispatcher) MakeDispatcher() types.Func {
	return func(call types.Call) (any, error) {
		if fn, _, ok := d.rules.Match(call.Args, call.Kwargs); ok {
			return fn(call)
		}

		d.mu.RLock()
		fallback := d.fallback
		d.mu.RUnlock()
		if fallback != nil {
			return fallback(call)
		}

		d.logger.Debug().Str("args", call.String()).Msg("No handler matched")
		return nil, errors.Newf(errors.ErrNoMatch, "%s: no handler matches (%s)", d.name, call).
			WithDetail("dispatcher", d.name).
			WithDetail("args", call.Args).
			WithDetail("kwargs", call.Kwargs)
	}
}

// Dispatch resolves and invokes call in one step
func (d *Dispatcher) Dispatch(call types.Call) (any, error) {
	return d.MakeDispatcher()(call)
}
