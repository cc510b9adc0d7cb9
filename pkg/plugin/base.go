package plugin

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// Base carries a plugin's name, global settings and per-handler
// overrides. Plugins embed *Base and implement WrapHandler.
type Base struct {
	name      string
	settings  map[string]any
	overrides map[string]map[string]any
}

// NewBase creates a Base with a copy of settings
func NewBase(name string, settings map[string]any) *Base {
	b := &Base{
		name:      name,
		settings:  make(map[string]any, len(settings)),
		overrides: make(map[string]map[string]any),
	}
	for k, v := range settings {
		b.settings[k] = v
	}
	return b
}

// Name returns the plugin name
func (b *Base) Name() string { return b.name }

// OnDecorate does nothing; plugins that inspect entries override it
func (b *Base) OnDecorate(*types.Entry, Host) error { return nil }

// Settings returns a copy of the global settings
func (b *Base) Settings() map[string]any {
	return merge(b.settings, nil)
}

// UpdateSettings merges settings into the global settings
func (b *Base) UpdateSettings(settings map[string]any) error {
	for k, v := range settings {
		b.settings[k] = v
	}
	return nil
}

// Configure records settings as overrides for each handler named in the
// comma-separated list names
func (b *Base) Configure(names string, settings map[string]any) error {
	targets := SplitNames(names)
	if len(targets) == 0 {
		return errors.Newf(errors.ErrInvalidInput, "plugin %s: no handler names in %q", b.name, names)
	}
	for _, name := range targets {
		current := b.overrides[name]
		if current == nil {
			current = make(map[string]any, len(settings))
			b.overrides[name] = current
		}
		for k, v := range settings {
			current[k] = v
		}
	}
	return nil
}

// Overrides returns a copy of the overrides recorded for handler
func (b *Base) Overrides(handler string) map[string]any {
	return merge(b.overrides[handler], nil)
}

// Config returns the global settings overlaid by handler's overrides
func (b *Base) Config(handler string) map[string]any {
	return merge(b.settings, b.overrides[handler])
}

// Metadata returns a metadata namespace of entry. With no ns it is the
// plugin's own namespace, created on first use. With ns it is that
// namespace if it exists, or an empty map that is not stored.
func (b *Base) Metadata(entry *types.Entry, ns ...string) types.Meta {
	if len(ns) == 0 || ns[0] == b.name {
		return entry.Meta(b.name)
	}
	return entry.PeekMeta(ns[0])
}

// Decode copies settings into the struct pointed to by out, matching
// `setting` tags and converting loosely typed values ("true", "1")
func Decode(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "setting",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create settings decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid plugin settings")
	}
	return nil
}

// SplitNames splits a comma-joined handler list, trimming blanks
func SplitNames(names string) []string {
	var out []string
	for _, n := range strings.Split(names, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func merge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
