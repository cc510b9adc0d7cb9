package ui

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/switchboard/pkg/errors"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	MarginLeft int    `yaml:"marginLeft,omitempty"`
}

// StyleConfig represents the complete styles configuration
type StyleConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles
type Styles map[string]lipgloss.Style

// LoadStyles parses a YAML style sheet. Styles are bound to r, or to the
// default lipgloss renderer when r is nil.
func LoadStyles(data []byte, r *lipgloss.Renderer) (Styles, error) {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	var cfg StyleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(Styles, len(cfg.Styles))
	for name, def := range cfg.Styles {
		style := r.NewStyle()
		if def.Bold {
			style = style.Bold(true)
		}
		if def.Italic {
			style = style.Italic(true)
		}
		if def.Foreground != "" {
			color, ok := colors[def.Foreground]
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid, "style %s uses unknown color %s", name, def.Foreground)
			}
			style = style.Foreground(color)
		}
		if def.MarginLeft > 0 {
			style = style.MarginLeft(def.MarginLeft)
		}
		styles[name] = style
	}
	return styles, nil
}

// DefaultStyles returns the built-in style sheet
func DefaultStyles() Styles {
	s, err := LoadStyles(defaultStyles, nil)
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns the named style, or a plain style when it is not defined
func (s Styles) Get(name string) lipgloss.Style {
	if style, ok := s[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to text
func (s Styles) Render(name, text string) string {
	return s.Get(name).Render(text)
}
