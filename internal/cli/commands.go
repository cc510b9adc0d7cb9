package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/switchboard/internal/version"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/types"
	"github.com/arthur-debert/switchboard/pkg/ui"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "switchboard version %s\n", version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				_, _ = fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}

func newPluginsCmd(opts *options) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the available plugin factories",
		Long: `List every plugin factory that a configuration file can attach with
"use = NAME". With --long the documentation of each plugin is included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderPlugins(ui.PluginInfos(plugin.Default().Registrations()), long)
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Include plugin documentation")
	return cmd
}

func newDescribeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [dispatcher]",
		Short: "Show handlers, rules and plugins of the dispatcher tree",
		Example: `  # The whole calculator
  switchboard describe

  # Only the text child, as JSON
  switchboard describe text --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			target, err := resolve(calc, path)
			if err != nil {
				return err
			}
			r, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderDescription(target.Describe())
		},
	}
}

func newCallCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "call HANDLER [ARGS...]",
		Short: "Call a handler by name",
		Long: `Call a handler by its name. Handlers of child dispatchers are reached with
a dotted path. Arguments are converted as described in "help arguments".`,
		Example: `  switchboard call add 2 3
  switchboard call text.repeat ab n=3
  switchboard call div 1 0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fn, err := calc.Lookup(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, args[0], fn, ParseCall(args[1:]))
		},
	}
}

func newDispatchCmd(opts *options) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "dispatch [ARGS...]",
		Short: "Let the rules pick the handler",
		Long: `Try each rule of the dispatcher in registration order and call the first
handler whose rule accepts the arguments, or the default handler.
See "help rules".`,
		Example: `  switchboard dispatch 21
  switchboard dispatch ada
  switchboard dispatch --in text hello`,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			target, err := resolve(calc, in)
			if err != nil {
				return err
			}
			return run(cmd, opts, target.Name(), target.MakeDispatcher(), ParseCall(args))
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Dotted path of the child dispatcher to use")
	return cmd
}

func run(cmd *cobra.Command, opts *options, name string, fn types.Func, call types.Call) error {
	log.Debug().Str("handler", name).Str("args", call.String()).Msg("Invoking handler")

	value, err := fn(call)
	if err != nil {
		return err
	}
	r, err := opts.renderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.RenderResult(ui.Result{Handler: name, Args: call.String(), Value: value})
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(switchboard completion bash)

Zsh:
  $ switchboard completion zsh > "${fpath[1]}/_switchboard"

Fish:
  $ switchboard completion fish | source

PowerShell:
  PS> switchboard completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
