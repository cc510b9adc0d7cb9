package ui

import (
	"encoding/json"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
)

// structured encodes output as JSON, YAML or TOML
type structured struct {
	w      io.Writer
	format Format
}

type pluginList struct {
	Plugins []PluginInfo `json:"plugins" yaml:"plugins" toml:"plugins"`
}

type errorOutput struct {
	Error   string         `json:"error" yaml:"error" toml:"error"`
	Code    string         `json:"code" yaml:"code" toml:"code"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty" toml:"details,omitempty"`
}

func (s *structured) encode(v any) error {
	var err error
	switch s.format {
	case FormatJSON:
		enc := json.NewEncoder(s.w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(s.w)
		enc.SetIndent(2)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(s.w).Encode(v)
	default:
		return errors.Newf(errors.ErrInvalidInput, "%s is not a structured format", s.format)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to encode %s output", s.format)
	}
	return nil
}

func (s *structured) RenderDescription(desc dispatcher.Description) error {
	return s.encode(desc)
}

func (s *structured) RenderPlugins(plugins []PluginInfo, long bool) error {
	if !long {
		short := make([]PluginInfo, len(plugins))
		for i, p := range plugins {
			short[i] = PluginInfo{Name: p.Name, Summary: p.Summary}
		}
		plugins = short
	}
	return s.encode(pluginList{Plugins: plugins})
}

func (s *structured) RenderResult(res Result) error {
	return s.encode(res)
}

func (s *structured) RenderError(err error) error {
	out := errorOutput{Error: err.Error(), Code: string(errors.GetErrorCode(err))}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		out.Details = details
	}
	return s.encode(out)
}
