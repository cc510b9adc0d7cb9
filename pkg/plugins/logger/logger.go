// Package logger provides the bundled call-logging plugin. Each handler
// call can be reported before it runs and after it returns, with its
// arguments, result or error, and elapsed time.
//
// Modes are comma-separated flags:
//
//	print | log          destination (exactly one in a global mode)
//	enabled | disabled   whether the handler is wrapped at all
//	before, after, time  content; before+after when none is given
//
// Per-handler overrides inherit every axis they do not name and may clear
// a content flag with "!after".
package logger

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/types"
)

const (
	// FactoryName is the name the plugin is registered under
	FactoryName = "logging"
	// DefaultName is the instance name used when none is given
	DefaultName = "logger"
	// DefaultMode logs through zerolog but leaves every handler unwrapped
	// until a per-handler override enables it
	DefaultMode = "log,disabled"
)

var modeKeys = []string{"enabled", "use_print", "use_log", "show_before", "show_after", "show_time"}

type options struct {
	Mode   string            `setting:"mode"`
	Config map[string]string `setting:"config"`
}

// Plugin is the call-logging plugin
type Plugin struct {
	*plugin.Base

	global Mode

	mu     sync.Mutex
	out    io.Writer
	logger zerolog.Logger
}

// New creates a logger plugin. Recognised settings:
//
//	mode    global mode string (default "log,disabled")
//	config  map of comma-joined handler names to override modes
//	writer  io.Writer used by the print destination (default stdout)
//	logger  zerolog.Logger used by the log destination
func New(name string, settings map[string]any) (*Plugin, error) {
	if name == "" {
		name = DefaultName
	}
	p := &Plugin{
		Base:   plugin.NewBase(name, nil),
		out:    os.Stdout,
		logger: zerolog.Nop(),
	}
	if err := p.setGlobal(DefaultMode); err != nil {
		return nil, err
	}
	if err := p.UpdateSettings(settings); err != nil {
		return nil, err
	}
	return p, nil
}

// Factory builds a logger plugin
func Factory(name string, settings map[string]any) (plugin.Plugin, error) {
	return New(name, settings)
}

func (p *Plugin) setGlobal(mode string) error {
	m, err := ParseMode(mode)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "plugin %s: invalid mode", p.Name())
	}
	p.global = m
	return p.Base.UpdateSettings(map[string]any{"mode": m.String()})
}

// UpdateSettings applies global settings. A "config" map is expanded
// into per-handler overrides.
func (p *Plugin) UpdateSettings(settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}

	rest := make(map[string]any, len(settings))
	for k, v := range settings {
		switch k {
		case "writer":
			w, ok := v.(io.Writer)
			if !ok || w == nil {
				return errors.Newf(errors.ErrConfigValid, "plugin %s: writer must be an io.Writer, got %T", p.Name(), v)
			}
			p.mu.Lock()
			p.out = w
			p.mu.Unlock()
		case "logger":
			switch l := v.(type) {
			case zerolog.Logger:
				p.logger = l
			case *zerolog.Logger:
				if l == nil {
					return errors.Newf(errors.ErrConfigValid, "plugin %s: logger is nil", p.Name())
				}
				p.logger = *l
			default:
				return errors.Newf(errors.ErrConfigValid, "plugin %s: logger must be a zerolog.Logger, got %T", p.Name(), v)
			}
		default:
			rest[k] = v
		}
	}

	var opts options
	if err := plugin.Decode(rest, &opts); err != nil {
		return err
	}
	if opts.Mode != "" {
		if err := p.setGlobal(opts.Mode); err != nil {
			return err
		}
	}
	for names, mode := range opts.Config {
		if err := p.Configure(names, map[string]any{"mode": mode}); err != nil {
			return err
		}
	}

	delete(rest, "mode")
	delete(rest, "config")
	return p.Base.UpdateSettings(rest)
}

// Configure records an override for each handler in names. A "mode"
// setting is checked against the grammar before it is stored; the
// boolean keys (enabled, show_after, ...) may be given directly.
func (p *Plugin) Configure(names string, settings map[string]any) error {
	if raw, ok := settings["mode"]; ok {
		mode, ok := raw.(string)
		if !ok {
			return errors.Newf(errors.ErrConfigValid, "plugin %s: mode must be a string, got %T", p.Name(), raw)
		}
		if _, err := ParseOverride(mode, p.global); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "plugin %s: invalid mode for %s", p.Name(), names)
		}
	}
	return p.Base.Configure(names, settings)
}

// ModeFor resolves the mode applied to handler
func (p *Plugin) ModeFor(handler string) Mode {
	over := p.Overrides(handler)
	m := p.global
	if mode, ok := over["mode"].(string); ok {
		if parsed, err := ParseOverride(mode, p.global); err == nil {
			m = parsed
		}
	}

	explicit := m.settings()
	for _, k := range modeKeys {
		if v, ok := over[k].(bool); ok {
			explicit[k] = v
		}
	}
	return modeFromSettings(explicit)
}

// Config returns the effective settings for handler with its mode
// resolved
func (p *Plugin) Config(handler string) map[string]any {
	cfg := p.Base.Config(handler)
	m := p.ModeFor(handler)
	cfg["mode"] = m.String()
	for k, v := range m.settings() {
		cfg[k] = v
	}
	return cfg
}

// WrapHandler reports calls to entry according to its resolved mode.
// Disabled handlers are returned unwrapped.
func (p *Plugin) WrapHandler(host plugin.Host, entry *types.Entry, next types.Func) types.Func {
	m := p.ModeFor(entry.Name())
	if !m.Enabled || (!m.Before && !m.After) {
		return next
	}
	name := entry.Name()
	dispatcher := host.Name()

	return func(call types.Call) (any, error) {
		var callID string
		if m.Log {
			callID = uuid.NewString()
		}
		if m.Before {
			p.emit(m, record{
				level: zerolog.InfoLevel, msg: fmt.Sprintf("→ %s(%s)", name, call),
				dispatcher: dispatcher, handler: name, callID: callID,
			})
		}

		start := time.Now()
		result, err := next(call)
		elapsed := time.Since(start)

		if m.After {
			var msg string
			level := zerolog.InfoLevel
			if err != nil {
				level = zerolog.ErrorLevel
				msg = fmt.Sprintf("✗ %s() raised %s: %s", name, errorKind(err), errorMessage(err))
			} else {
				msg = fmt.Sprintf("← %s() → %s", name, formatResult(result))
			}
			if m.Time {
				msg += fmt.Sprintf(" (%.4fs)", elapsed.Seconds())
			}
			p.emit(m, record{
				level: level, msg: msg,
				dispatcher: dispatcher, handler: name, callID: callID,
				elapsed: elapsed, done: true,
			})
		}
		return result, err
	}
}

type record struct {
	level      zerolog.Level
	msg        string
	dispatcher string
	handler    string
	callID     string
	elapsed    time.Duration
	done       bool
}

// emit writes r to the mode's destination. The log destination falls
// back to print while no logger has been configured.
func (p *Plugin) emit(m Mode, r record) {
	if m.Log && p.logger.GetLevel() != zerolog.Disabled {
		ev := p.logger.WithLevel(r.level)
		if ev == nil {
			return
		}
		ev = ev.Str("plugin", p.Name()).
			Str("dispatcher", r.dispatcher).
			Str("handler", r.handler).
			Str("call_id", r.callID)
		if r.done {
			ev = ev.Dur("elapsed", r.elapsed)
		}
		ev.Msg(r.msg)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, r.msg)
}

func formatResult(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprint(v)
}

// errorKind names an error by its code when it carries one, otherwise by
// its dynamic type
func errorKind(err error) string {
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return string(code)
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "error"
	}
	return t.String()
}

func errorMessage(err error) string {
	var sbErr *errors.SwitchboardError
	if stderrors.As(err, &sbErr) && sbErr.Message != "" {
		return sbErr.Message
	}
	return strings.TrimSpace(err.Error())
}

func init() {
	plugin.MustRegister(plugin.Registration{
		Name:    FactoryName,
		Factory: Factory,
		Summary: "Report handler calls, results, errors and timing",
		Doc:     doc,
	})
}
