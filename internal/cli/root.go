// Package cli implements the switchboard command: it loads the
// configuration, builds the demo calculator with the configured plugins
// and exposes its handlers on the command line.
package cli

import (
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/switchboard/internal/demo"
	"github.com/arthur-debert/switchboard/internal/version"
	"github.com/arthur-debert/switchboard/pkg/config"
	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/logging"
	"github.com/arthur-debert/switchboard/pkg/plugins"
	"github.com/arthur-debert/switchboard/pkg/plugins/logger"
	"github.com/arthur-debert/switchboard/pkg/ui"
)

// options holds the global flags
type options struct {
	verbosity  int
	configPath string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRoot()
	return rootCmd
}

func newRoot() (*cobra.Command, *options) {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "switchboard",
		Short: "Rule-based function dispatch with a plugin pipeline",
		Long: `switchboard registers handlers on named dispatchers, selects one per call
by matching type and value rules, and runs every call through an ordered
pipeline of plugins (logging, validation, metrics, transactions).

The bundled calculator lets you try it from the shell.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			plugins.Initialize()
			logging.LogCommand(cmd.Name(), args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: switchboard/config.toml in the XDG config dirs)")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "auto", "Output format: auto, term, text, json, yaml, toml")

	initTemplateFormatting()
	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPluginsCmd(opts))
	rootCmd.AddCommand(newDescribeCmd(opts))
	rootCmd.AddCommand(newCallCmd(opts))
	rootCmd.AddCommand(newDispatchCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	if help, err := newTopics(stdoutIsTerminal()); err == nil {
		help.Install(rootCmd)
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd, opts
}

// Execute runs the command line in args, rendering any error to stderr
// in the selected format. It returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd, opts := newRoot()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	r, rerr := opts.renderer(stderr)
	if rerr != nil {
		r, _ = ui.NewRenderer(ui.FormatText, stderr)
	}
	_ = r.RenderError(err)
	return 1
}

func (o *options) renderer(w io.Writer) (ui.Renderer, error) {
	format, err := ui.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, w)
}

// load reads the configuration and builds the calculator. Logger plugins
// write traces to trace and log through the global zerolog logger.
func (o *options) load(trace io.Writer) (*dispatcher.Dispatcher, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	done := logging.LogOperationStart(log.Logger, "load-config")
	cfg, err := config.Load(path)
	done()
	if err != nil {
		return nil, err
	}
	if cfg.Log.Verbosity > o.verbosity {
		logging.SetupLogger(cfg.Log.Verbosity)
	}

	calc, err := demo.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := routeTraces(calc, trace); err != nil {
		return nil, err
	}
	return calc, nil
}

func routeTraces(d *dispatcher.Dispatcher, w io.Writer) error {
	for _, p := range d.Plugins() {
		lp, ok := p.(*logger.Plugin)
		if !ok {
			continue
		}
		err := lp.UpdateSettings(map[string]any{
			"writer": w,
			"logger": logging.GetLogger("trace"),
		})
		if err != nil {
			return err
		}
	}
	for _, child := range d.Children() {
		if err := routeTraces(child, w); err != nil {
			return err
		}
	}
	return nil
}

// resolve walks a dotted child path from d; "" returns d
func resolve(d *dispatcher.Dispatcher, path string) (*dispatcher.Dispatcher, error) {
	if path == "" {
		return d, nil
	}
	current := d
	for _, name := range strings.Split(path, ".") {
		child, err := current.GetChild(name)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "no dispatcher at %s", path).
				WithDetail("path", path)
		}
		current = child
	}
	return current, nil
}
