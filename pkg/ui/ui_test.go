package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/ui"
)

func sampleDescription() dispatcher.Description {
	return dispatcher.Description{
		Name:     "calc",
		Handlers: []string{"add", "double"},
		Default:  "add",
		Rules:    []string{"double"},
		Plugins:  []string{"logger"},
		Children: map[string]dispatcher.Description{
			"text": {Name: "text", Handlers: []string{"upper"}, Rules: []string{}, Plugins: []string{}},
		},
	}
}

func samplePlugins() []ui.PluginInfo {
	return []ui.PluginInfo{
		{Name: "logging", Summary: "Report handler calls", Doc: "# logging\n\nReports calls.\n"},
		{Name: "metrics", Summary: "Count handler calls"},
	}
}

func render(t *testing.T, format ui.Format, fn func(ui.Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	r, err := ui.NewRenderer(format, &buf)
	require.NoError(t, err)
	require.NoError(t, fn(r))
	return buf.String()
}

func TestNewRenderer(t *testing.T) {
	t.Run("auto on a buffer is text", func(t *testing.T) {
		out := render(t, ui.FormatAuto, func(r ui.Renderer) error {
			return r.RenderResult(ui.Result{Handler: "add", Value: 5})
		})
		assert.Equal(t, "5\n", out)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := ui.NewRenderer(ui.Format(42), &bytes.Buffer{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestTextDescription(t *testing.T) {
	out := render(t, ui.FormatText, func(r ui.Renderer) error {
		return r.RenderDescription(sampleDescription())
	})

	assert.Contains(t, out, "calc\n")
	assert.Contains(t, out, "handlers  add, double")
	assert.Contains(t, out, "default   add")
	assert.Contains(t, out, "rules     double")
	assert.Contains(t, out, "plugins   logger")
	assert.Contains(t, out, "    text\n")
	assert.Contains(t, out, "handlers  upper")
}

func TestTextPlugins(t *testing.T) {
	out := render(t, ui.FormatText, func(r ui.Renderer) error {
		return r.RenderPlugins(samplePlugins(), false)
	})
	assert.Equal(t, "logging  Report handler calls\nmetrics  Count handler calls\n", out)

	long := render(t, ui.FormatText, func(r ui.Renderer) error {
		return r.RenderPlugins(samplePlugins(), true)
	})
	assert.Contains(t, long, "Reports calls.")
	assert.Contains(t, long, "# metrics\n\nCount handler calls")
}

func TestTerminalOutput(t *testing.T) {
	out := render(t, ui.FormatTerminal, func(r ui.Renderer) error {
		if err := r.RenderPlugins(samplePlugins(), false); err != nil {
			return err
		}
		return r.RenderResult(ui.Result{Handler: "greet", Args: `"ada"`, Value: "hi ada"})
	})

	assert.Contains(t, out, "logging")
	assert.Contains(t, out, "Count handler calls")
	assert.Contains(t, out, "greet")
	assert.Contains(t, out, `"hi ada"`)
}

func TestRenderError(t *testing.T) {
	err := errors.New(errors.ErrNoMatch, "calc: no handler matches (\"x\")")

	text := render(t, ui.FormatText, func(r ui.Renderer) error { return r.RenderError(err) })
	assert.Equal(t, "error: NO_MATCH calc: no handler matches (\"x\")\n", text)

	raw := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderError(err.WithDetail("dispatcher", "calc")) })
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "NO_MATCH", decoded["code"])
	assert.Equal(t, "calc", decoded["details"].(map[string]any)["dispatcher"])
}

func TestStructuredDescription(t *testing.T) {
	want := sampleDescription()

	t.Run("json", func(t *testing.T) {
		out := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderDescription(want) })
		var got dispatcher.Description
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	})

	t.Run("yaml", func(t *testing.T) {
		out := render(t, ui.FormatYAML, func(r ui.Renderer) error { return r.RenderDescription(want) })
		assert.Contains(t, out, "name: calc")
		assert.Contains(t, out, "default: add")
		var got dispatcher.Description
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, want.Children["text"].Handlers, got.Children["text"].Handlers)
	})

	t.Run("toml", func(t *testing.T) {
		out := render(t, ui.FormatTOML, func(r ui.Renderer) error { return r.RenderDescription(want) })
		assert.Contains(t, out, "name = 'calc'")
		var got dispatcher.Description
		require.NoError(t, toml.Unmarshal([]byte(out), &got))
		assert.Equal(t, want.Handlers, got.Handlers)
	})
}

func TestStructuredPlugins(t *testing.T) {
	out := render(t, ui.FormatYAML, func(r ui.Renderer) error {
		return r.RenderPlugins(samplePlugins(), false)
	})
	assert.Contains(t, out, "name: logging")
	assert.NotContains(t, out, "Reports calls.")
}

func TestStyles(t *testing.T) {
	styles := ui.DefaultStyles()
	assert.Contains(t, styles, "Title")
	assert.Contains(t, styles.Render("Missing", "plain"), "plain")

	_, err := ui.LoadStyles([]byte("styles:\n  X:\n    foreground: nowhere\n"), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

	_, err = ui.LoadStyles([]byte("colors: [unclosed"), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
