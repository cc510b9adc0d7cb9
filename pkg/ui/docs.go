package ui

import (
	"github.com/charmbracelet/glamour"
)

// DocRenderer renders plugin documentation with glamour
type DocRenderer struct {
	Style string // Style name: "dark", "light", "notty", "auto", or path to custom style
	Width int    // Word wrap width (0 = glamour default)
}

// NewDocRenderer creates a markdown renderer using glamour with auto-detection
func NewDocRenderer() *DocRenderer {
	return &DocRenderer{Style: "auto"}
}

// Render converts markdown to terminal output, returning content
// unchanged when glamour cannot render it
func (r *DocRenderer) Render(content string) string {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
