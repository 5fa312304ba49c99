package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/specialistvlad/smolix/internal/app"
)

// Highlight applies the smolix accent colour.
func Highlight(format string, a ...any) string {
	return color.RGB(126, 186, 228).Sprintf(format, a...)
}

// Execute runs the command line in args. Results go to outW; logs, usage and
// errors go to errW. The returned error is always an *ExitError or nil.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, appOpts ...app.Option) error {
	cmd := NewRootCommand(outW, errW, appOpts...)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra reports on its own is an argument or flag problem.
	return usageError(err)
}

// NewRootCommand builds the smolix command tree.
func NewRootCommand(outW, errW io.Writer, appOpts ...app.Option) *cobra.Command {
	opts := &options{cfg: app.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "smolix",
		Short: "Resolve, plan and inspect derivation graphs",
		Long: Highlight("Usage: smolix [global options] <command> <derivation>\n") + `
smolix resolves a root derivation descriptor into its complete dependency
graph, prints a build order for it, dry-runs a parallel build over it, or
opens an interactive tree view of it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, flagConfig, "", "Path to an HCL configuration file.")
	flags.StringVar(&opts.cfg.LogLevel, flagLogLevel, opts.cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.cfg.LogFormat, flagLogFormat, opts.cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flags.BoolVar(&opts.cfg.StrictNames, flagStrictNames, false, "Fail when two different descriptors share a name.")

	newApp := func(cmd *cobra.Command) (*app.App, error) {
		cfg, err := resolveConfig(cmd.Flags(), opts)
		if err != nil {
			return nil, usageError(err)
		}
		return app.NewApp(outW, errW, cfg, appOpts...), nil
	}

	cmd.AddCommand(
		newTreeCommand(newApp),
		newPlanCommand(newApp, opts),
		newBuildCommand(newApp, opts),
	)
	return cmd
}

type appFactory func(cmd *cobra.Command) (*app.App, error)

// exactArgs returns a usage error unless exactly n arguments are given.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		return usageError(fmt.Errorf("%s: expected %d argument(s), got %d", cmd.CommandPath(), n, len(args)))
	}
}

// inputPathsHelp explains how inputDrvs keys are located on disk.
const inputPathsHelp = `Relative paths in a descriptor's inputDrvs are resolved against the
directory of that descriptor, not the current working directory.`

func newTreeCommand(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <drv>",
		Short: "Open an interactive tree view of a derivation's dependencies",
		Long: `Resolve <drv> and browse its dependency tree. Use the arrow keys or
the mouse wheel to move, Enter to fold a node and q to quit.

` + inputPathsHelp,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Tree(cmd.Context(), args[0]); err != nil {
				return runtimeError(err)
			}
			return nil
		},
	}
}

func newPlanCommand(newApp appFactory, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <drv|dir>",
		Short: "Print the build order, dependencies first",
		Long: `Resolve <drv>, or every descriptor in a store directory, and print the
derivation names in an order where each one follows all of its inputs.

` + inputPathsHelp,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Plan(cmd.Context(), args[0], opts.levels); err != nil {
				return runtimeError(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.levels, flagLevels, false, "Group the order into waves of independent derivations.")
	return cmd
}

func newBuildCommand(newApp appFactory, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <drv|dir>",
		Short: "Dry-run a parallel build in dependency order",
		Long: `Resolve <drv|dir> and hand every derivation to the dry-run builder,
running independent derivations concurrently.

` + inputPathsHelp,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if _, err := a.Build(cmd.Context(), args[0]); err != nil {
				return runtimeError(err)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.cfg.Parallelism, flagParallelism, 0, "Maximum number of concurrent builds. 0 means one per CPU.")
	flags.BoolVar(&opts.cfg.StopOnError, flagStopOnError, false, "Cancel the run on the first failed build.")
	flags.IntVar(&opts.cfg.HealthcheckPort, flagHealthcheckPort, 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	return cmd
}
