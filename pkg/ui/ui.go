// Package ui renders command output in terminal, text, JSON, YAML and
// TOML formats.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/plugin"
)

// PluginInfo describes a registered plugin factory
type PluginInfo struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Summary string `json:"summary" yaml:"summary" toml:"summary"`
	Doc     string `json:"doc,omitempty" yaml:"doc,omitempty" toml:"doc,omitempty"`
}

// PluginInfos converts factory registrations for rendering
func PluginInfos(regs []plugin.Registration) []PluginInfo {
	out := make([]PluginInfo, len(regs))
	for i, r := range regs {
		out[i] = PluginInfo{Name: r.Name, Summary: r.Summary, Doc: r.Doc}
	}
	return out
}

// Result is the outcome of a handler call
type Result struct {
	Handler string `json:"handler" yaml:"handler" toml:"handler"`
	Args    string `json:"args" yaml:"args" toml:"args"`
	Value   any    `json:"value" yaml:"value" toml:"value,omitempty"`
}

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderDescription renders a dispatcher tree
	RenderDescription(desc dispatcher.Description) error

	// RenderPlugins renders plugin factories; long includes their docs
	RenderPlugins(plugins []PluginInfo, long bool) error

	// RenderResult renders a handler's return value
	RenderResult(res Result) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return newConsole(output, true), nil
	case FormatText:
		return newConsole(output, false), nil
	case FormatJSON, FormatYAML, FormatTOML:
		return &structured{w: output, format: format}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
