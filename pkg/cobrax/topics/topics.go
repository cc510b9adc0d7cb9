// Package topics provides a topic-based help system for Cobra CLI
// applications. Topics come from embedded markdown files or are added
// directly, such as the documentation of each plugin factory.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic represents a help topic
type Topic struct {
	Name    string
	Summary string
	Content string
}

// Options configures the Manager
type Options struct {
	// Extensions is the list of file extensions to consider as topics
	// Defaults to [".md", ".txt"] if not specified
	Extensions []string

	// Renderer for formatting topic content (optional)
	// Defaults to PlainRenderer if not specified
	Renderer Renderer
}

// Manager manages help topics for a Cobra application
type Manager struct {
	topics       map[string]Topic
	extensions   []string
	renderer     Renderer
	originalHelp func(*cobra.Command, []string)
}

// New creates a Manager
func New(opts Options) *Manager {
	m := &Manager{
		topics:     make(map[string]Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".md", ".txt"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}
	return m
}

// Add registers t, replacing any topic with the same name
func (m *Manager) Add(t Topic) {
	m.topics[t.Name] = t
}

// LoadFS adds every file below dir in fsys with a supported extension.
// The topic name is the file name without extension and the summary is
// the first line of content with any heading markers removed.
func (m *Manager) LoadFS(fsys fs.FS, dir string) error {
	return fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !m.supported(path.Ext(p)) {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		text := string(content)
		m.Add(Topic{
			Name:    strings.TrimSuffix(path.Base(p), path.Ext(p)),
			Summary: summaryOf(text),
			Content: text,
		})
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, valid := range m.extensions {
		if ext == valid {
			return true
		}
	}
	return false
}

func summaryOf(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	return strings.TrimSpace(strings.TrimLeft(line, "# "))
}

// Get retrieves a topic by name
func (m *Manager) Get(name string) (Topic, bool) {
	t, ok := m.topics[name]
	return t, ok
}

// Names returns all topic names, sorted
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the rendered content of a topic
func (m *Manager) Render(t Topic) string {
	return m.renderer.Render(t.Content)
}

// Install replaces the help command of rootCmd with one that also knows
// the managed topics
func (m *Manager) Install(rootCmd *cobra.Command) {
	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				names := m.Names()
				if len(names) == 0 {
					_, _ = fmt.Fprintln(out, "No help topics available.")
					return
				}
				_, _ = fmt.Fprintln(out, "Available help topics:")
				for _, name := range names {
					_, _ = fmt.Fprintf(out, "  %-12s %s\n", name, m.topics[name].Summary)
				}
				_, _ = fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
				return
			}

			if t, ok := m.Get(args[0]); ok {
				_, _ = fmt.Fprint(out, m.Render(t))
				return
			}

			target, _, err := rootCmd.Find(args)
			if err != nil || target == nil {
				target = rootCmd
			}
			m.originalHelp(target, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.SetHelpCommand(helpCmd)
}
