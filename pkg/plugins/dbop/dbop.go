// Package dbop provides the bundled transactional plugin. A wrapped
// handler receives a cursor from the resource manager passed as its first
// argument; the work is committed when the handler succeeds and rolled
// back when it fails or panics.
package dbop

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/logging"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/types"
)

const (
	// FactoryName is the name the plugin is registered under
	FactoryName = "dbop"
	// AutocommitArg is the named argument that turns off the commit. It
	// is consumed by the wrapper and never reaches the handler.
	AutocommitArg = "autocommit"
)

// ResourceManager opens cursors and ends transactions
type ResourceManager interface {
	Cursor() (any, error)
	Commit() error
	Rollback() error
}

// Provider is implemented by values that own a ResourceManager, such as a
// repository passed as the bound instance
type Provider interface {
	Resources() ResourceManager
}

type settings struct {
	Enabled   bool   `setting:"enabled"`
	CursorArg string `setting:"cursor_arg"`
}

// Plugin is the transactional plugin
type Plugin struct {
	*plugin.Base
	logger zerolog.Logger
}

// New creates a dbop plugin. Settings: enabled (default true) and
// cursor_arg, the named argument the cursor is injected as (default
// "cursor").
func New(name string, s map[string]any) (*Plugin, error) {
	if name == "" {
		name = FactoryName
	}
	p := &Plugin{
		Base:   plugin.NewBase(name, map[string]any{"enabled": true, "cursor_arg": "cursor"}),
		logger: logging.GetLogger("dbop"),
	}
	if err := p.UpdateSettings(s); err != nil {
		return nil, err
	}
	if _, err := p.settingsFor(""); err != nil {
		return nil, err
	}
	return p, nil
}

// Factory builds a dbop plugin
func Factory(name string, s map[string]any) (plugin.Plugin, error) {
	return New(name, s)
}

func (p *Plugin) settingsFor(handler string) (settings, error) {
	var s settings
	if err := plugin.Decode(p.Config(handler), &s); err != nil {
		return s, err
	}
	if s.CursorArg == "" {
		return s, errors.Newf(errors.ErrConfigValid, "plugin %s: cursor_arg is empty", p.Name())
	}
	return s, nil
}

// OnDecorate checks the handler's settings and records the injected
// argument in the plugin's metadata namespace
func (p *Plugin) OnDecorate(entry *types.Entry, _ plugin.Host) error {
	s, err := p.settingsFor(entry.Name())
	if err != nil {
		return err
	}
	meta := p.Metadata(entry)
	meta["transactional"] = s.Enabled
	meta["cursor_arg"] = s.CursorArg
	return nil
}

// WrapHandler runs next inside a transaction
func (p *Plugin) WrapHandler(host plugin.Host, entry *types.Entry, next types.Func) types.Func {
	s, err := p.settingsFor(entry.Name())
	if err != nil || !s.Enabled {
		return next
	}
	name := entry.Name()
	logger := p.logger.With().Str("dispatcher", host.Name()).Str("handler", name).Logger()

	return func(call types.Call) (result any, err error) {
		rm, err := resourcesOf(call, name)
		if err != nil {
			return nil, err
		}

		commit := true
		if v, ok := call.Kwarg(AutocommitArg); ok {
			b, isBool := v.(bool)
			if !isBool {
				return nil, errors.Newf(errors.ErrInvalidInput, "%s: %s must be a bool, got %T", name, AutocommitArg, v).
					WithDetail("handler", name).
					WithDetail("field", AutocommitArg)
			}
			commit = b
			call = call.Without(AutocommitArg)
		}

		if cur, ok := call.Kwarg(s.CursorArg); !ok || cur == nil {
			cursor, err := rm.Cursor()
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInternal, "%s: failed to open cursor", name).
					WithDetail("handler", name)
			}
			call = call.With(s.CursorArg, cursor)
		}

		defer func() {
			if r := recover(); r != nil {
				rollback(logger, rm)
				panic(r)
			}
		}()

		result, err = next(call)
		if err == nil && commit {
			err = rm.Commit()
		}
		if err != nil {
			rollback(logger, rm)
			return nil, err
		}
		return result, nil
	}
}

// rollback discards the transaction. A rollback failure is logged and
// dropped so the original failure reaches the caller.
func rollback(logger zerolog.Logger, rm ResourceManager) {
	if err := rm.Rollback(); err != nil {
		logger.Warn().Err(err).Msg("rollback failed")
	}
}

func resourcesOf(call types.Call, handler string) (ResourceManager, error) {
	first, ok := call.Arg(0)
	if !ok {
		return nil, errors.Newf(errors.ErrCapability, "%s: first argument must be a resource manager", handler).
			WithDetail("handler", handler)
	}
	switch v := first.(type) {
	case ResourceManager:
		return v, nil
	case Provider:
		if rm := v.Resources(); rm != nil {
			return rm, nil
		}
	}
	return nil, errors.Newf(errors.ErrCapability, "%s: %T does not provide cursor, commit and rollback", handler, first).
		WithDetail("handler", handler)
}

func init() {
	plugin.MustRegister(plugin.Registration{
		Name:    FactoryName,
		Factory: Factory,
		Summary: "Run handlers in a transaction with commit and rollback",
		Doc: `# dbop

Wraps handlers whose first argument is a resource manager (Cursor,
Commit, Rollback) or provides one through Resources().

- A cursor is injected as the ` + "`cursor`" + ` argument unless one is passed.
- Success commits; pass ` + "`autocommit=false`" + ` to skip the commit.
- Errors and panics roll back once and surface unchanged.
- A failing commit also rolls back once and its error is returned.

## Settings

- **enabled**: wrap the handler (default true)
- **cursor_arg**: name of the injected argument (default ` + "`cursor`" + `)
`,
	})
}
