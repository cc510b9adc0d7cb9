package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// console renders for people: styled on a terminal, plain otherwise
type console struct {
	w      io.Writer
	styled bool
	styles Styles
	docs   *DocRenderer
}

func newConsole(w io.Writer, styled bool) *console {
	c := &console{w: w, styled: styled, docs: NewDocRenderer()}
	if styled {
		styles, err := LoadStyles(defaultStyles, lipgloss.NewRenderer(w))
		if err != nil {
			styles = Styles{}
		}
		c.styles = styles
	}
	return c
}

func (c *console) style(name, text string) string {
	if !c.styled {
		return text
	}
	return c.styles.Render(name, text)
}

func (c *console) RenderDescription(desc dispatcher.Description) error {
	var b strings.Builder
	c.writeDescription(&b, "", desc)
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *console) writeDescription(b *strings.Builder, indent string, desc dispatcher.Description) {
	fmt.Fprintf(b, "%s%s\n", indent, c.style("Title", desc.Name))
	field := func(label, value string) {
		if value == "" {
			value = c.style("Muted", "-")
		}
		fmt.Fprintf(b, "%s  %s %s\n", indent, c.style("Label", fmt.Sprintf("%-9s", label)), value)
	}
	field("handlers", c.names(desc.Handlers))
	field("default", c.style("Name", desc.Default))
	field("rules", c.names(desc.Rules))
	field("plugins", c.names(desc.Plugins))

	links := make([]string, 0, len(desc.Children))
	for link := range desc.Children {
		links = append(links, link)
	}
	sort.Strings(links)
	for _, link := range links {
		child := desc.Children[link]
		if link != child.Name {
			fmt.Fprintf(b, "%s  %s %s\n", indent, c.style("Label", "child"), c.style("Muted", "as "+link))
		}
		c.writeDescription(b, indent+"    ", child)
	}
}

func (c *console) names(names []string) string {
	styled := make([]string, len(names))
	for i, n := range names {
		styled[i] = c.style("Name", n)
	}
	return strings.Join(styled, ", ")
}

func (c *console) RenderPlugins(plugins []PluginInfo, long bool) error {
	if long {
		for _, p := range plugins {
			doc := p.Doc
			if doc == "" {
				doc = "# " + p.Name + "\n\n" + p.Summary + "\n"
			}
			if c.styled {
				doc = c.docs.Render(doc)
			}
			if _, err := fmt.Fprintln(c.w, doc); err != nil {
				return err
			}
		}
		return nil
	}

	if !c.styled {
		width := 0
		for _, p := range plugins {
			width = max(width, len(p.Name))
		}
		for _, p := range plugins {
			if _, err := fmt.Fprintf(c.w, "%-*s  %s\n", width, p.Name, p.Summary); err != nil {
				return err
			}
		}
		return nil
	}

	data := pterm.TableData{{"Plugin", "Description"}}
	for _, p := range plugins {
		data = append(data, []string{c.style("Name", p.Name), p.Summary})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render plugin table")
	}
	_, err = fmt.Fprintln(c.w, table)
	return err
}

func (c *console) RenderResult(res Result) error {
	value := types.FormatValue(res.Value)
	if !c.styled {
		_, err := fmt.Fprintln(c.w, value)
		return err
	}
	_, err := fmt.Fprintf(c.w, "%s(%s) %s %s\n",
		c.style("Name", res.Handler), res.Args, c.style("Muted", "→"), c.style("Success", value))
	return err
}

func (c *console) RenderError(err error) error {
	msg := err.Error()
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg = fmt.Sprintf("%s %s", c.style("Error", string(code)), messageOf(err))
	}
	_, werr := fmt.Fprintf(c.w, "%s %s\n", c.style("Error", "error:"), msg)
	return werr
}

func messageOf(err error) string {
	var sbErr *errors.SwitchboardError
	if stderrors.As(err, &sbErr) {
		if sbErr.Wrapped != nil {
			return sbErr.Message + ": " + sbErr.Wrapped.Error()
		}
		return sbErr.Message
	}
	return err.Error()
}
