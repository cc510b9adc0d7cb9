package plugin

import (
	"github.com/arthur-debert/switchboard/pkg/types"
)

// Host is the dispatcher a plugin is attached to
type Host interface {
	Name() string
}

// Plugin is the capability set a dispatcher requires from middleware
type Plugin interface {
	// Name returns the name the plugin is addressed by on its dispatcher
	Name() string

	// OnDecorate runs once per registration, before any wrapping. An error
	// aborts the registration.
	OnDecorate(entry *types.Entry, host Host) error

	// WrapHandler returns the layer placed around next for this entry
	WrapHandler(host Host, entry *types.Entry, next types.Func) types.Func
}

// Configurable plugins accept global settings and per-handler overrides
type Configurable interface {
	Configure(handlers string, settings map[string]any) error
	UpdateSettings(settings map[string]any) error
	Config(handler string) map[string]any
}

// Factory builds a plugin instance. An empty name asks the factory for
// its default instance name.
type Factory func(name string, settings map[string]any) (Plugin, error)
