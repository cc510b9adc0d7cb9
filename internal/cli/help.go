package cli

import (
	"embed"

	"github.com/arthur-debert/switchboard/pkg/cobrax/topics"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/ui"
)

//go:embed help/*.md
var helpFiles embed.FS

// newTopics collects the embedded help files and the documentation of
// every registered plugin factory
func newTopics(styled bool) (*topics.Manager, error) {
	var renderer topics.Renderer = &topics.PlainRenderer{}
	if styled {
		renderer = ui.NewDocRenderer()
	}
	m := topics.New(topics.Options{Renderer: renderer})
	if err := m.LoadFS(helpFiles, "help"); err != nil {
		return nil, err
	}
	for _, reg := range plugin.Default().Registrations() {
		if reg.Doc == "" {
			continue
		}
		m.Add(topics.Topic{Name: reg.Name, Summary: reg.Summary, Content: reg.Doc})
	}
	return m, nil
}
