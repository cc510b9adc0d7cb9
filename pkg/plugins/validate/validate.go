// Package validate provides the bundled argument validation plugin. At
// registration it derives a schema from the handler's typed parameters;
// at call time it converts each argument to its declared type, fills
// declared defaults, and rejects the call with a VALIDATION error before
// the handler runs.
package validate

import (
	"strings"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// FactoryName is the name the plugin is registered under
const FactoryName = "validate"

// Metadata keys published in the plugin's namespace
const (
	MetaSchema = "schema"
	MetaTypes  = "types"
	MetaParams = "params"
)

// Plugin is the validation plugin
type Plugin struct {
	*plugin.Base
	validator Validator
}

// New creates a validation plugin. A "validator" setting replaces the
// default DecodeValidator; "enabled" may be turned off per handler.
func New(name string, settings map[string]any) (*Plugin, error) {
	if name == "" {
		name = FactoryName
	}
	p := &Plugin{
		Base:      plugin.NewBase(name, map[string]any{"enabled": true}),
		validator: DecodeValidator{},
	}
	if err := p.UpdateSettings(settings); err != nil {
		return nil, err
	}
	return p, nil
}

// Factory builds a validation plugin
func Factory(name string, settings map[string]any) (plugin.Plugin, error) {
	return New(name, settings)
}

// UpdateSettings applies global settings
func (p *Plugin) UpdateSettings(settings map[string]any) error {
	rest := make(map[string]any, len(settings))
	for k, v := range settings {
		if k != "validator" {
			rest[k] = v
			continue
		}
		val, ok := v.(Validator)
		if !ok || val == nil {
			return errors.Newf(errors.ErrConfigValid, "plugin %s: validator must implement validate.Validator, got %T", p.Name(), v)
		}
		p.validator = val
	}
	return p.Base.UpdateSettings(rest)
}

func (p *Plugin) enabled(handler string) (bool, error) {
	var s struct {
		Enabled bool `setting:"enabled"`
	}
	if err := plugin.Decode(p.Config(handler), &s); err != nil {
		return false, err
	}
	return s.Enabled, nil
}

// OnDecorate derives the handler's schema and publishes it
func (p *Plugin) OnDecorate(entry *types.Entry, _ plugin.Host) error {
	if _, err := p.enabled(entry.Name()); err != nil {
		return err
	}
	schema, ok := p.validator.Derive(entry.Name(), entry.Params())
	if !ok {
		return nil
	}
	meta := p.Metadata(entry)
	meta[MetaSchema] = schema
	meta[MetaTypes] = schema.Types()
	meta[MetaParams] = entry.ParamNames()
	return nil
}

// SchemaOf returns the schema published for entry, if any
func (p *Plugin) SchemaOf(entry *types.Entry) (*Schema, bool) {
	s, ok := entry.PeekMeta(p.Name())[MetaSchema].(*Schema)
	return s, ok
}

// WrapHandler validates calls before they reach next. Handlers without
// typed parameters are returned unwrapped.
func (p *Plugin) WrapHandler(_ plugin.Host, entry *types.Entry, next types.Func) types.Func {
	on, err := p.enabled(entry.Name())
	if err != nil || !on {
		return next
	}
	schema, ok := p.SchemaOf(entry)
	if !ok {
		return next
	}
	validator := p.validator

	return func(call types.Call) (any, error) {
		checked, err := check(validator, schema, call)
		if err != nil {
			return nil, err
		}
		return next(checked)
	}
}

type fieldError struct {
	field string
	msg   string
}

func check(v Validator, schema *Schema, call types.Call) (types.Call, error) {
	out := call.Clone()
	var failed []fieldError

	for _, f := range schema.Fields {
		if f.Index < len(out.Args) {
			coerced, err := v.Coerce(f, out.Args[f.Index])
			if err != nil {
				failed = append(failed, fieldError{f.Name, err.Error()})
				continue
			}
			out.Args[f.Index] = coerced
			continue
		}

		raw, named := out.Kwargs[f.Name]
		switch {
		case named:
			coerced, err := v.Coerce(f, raw)
			if err != nil {
				failed = append(failed, fieldError{f.Name, err.Error()})
				continue
			}
			out = out.With(f.Name, coerced)
		case f.HasDefault:
			out = out.With(f.Name, f.Default)
		default:
			failed = append(failed, fieldError{f.Name, "field required"})
		}
	}

	if len(failed) == 0 {
		return out, nil
	}
	return types.Call{}, validationError(schema.Handler, failed)
}

func validationError(handler string, failed []fieldError) error {
	names := make([]string, len(failed))
	msgs := make([]string, len(failed))
	byField := make(map[string]string, len(failed))
	for i, fe := range failed {
		names[i] = fe.field
		msgs[i] = fe.field + ": " + fe.msg
		byField[fe.field] = fe.msg
	}
	return errors.Newf(errors.ErrValidation, "%s: invalid arguments: %s", handler, strings.Join(msgs, "; ")).
		WithDetail("handler", handler).
		WithDetail("field", names[0]).
		WithDetail("fields", names).
		WithDetail("errors", byField)
}

func init() {
	plugin.MustRegister(plugin.Registration{
		Name:    FactoryName,
		Factory: Factory,
		Summary: "Convert and check arguments against declared parameter types",
		Doc: `# validate

Checks each call against the handler's typed parameters before it runs.

- Numeric strings become numbers, maps become structs, slices convert
  element by element.
- Declared defaults fill missing arguments.
- Untyped parameters are passed through; handlers with no typed
  parameters are not wrapped.

Failures are VALIDATION errors with ` + "`handler`, `field` and `fields`" + ` details.

## Settings

- **enabled**: validate the handler (default true)
`,
	})
}
