package cli

import (
	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCommand returns the gridbuild command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "gridbuild",
		Short: "Build a workspace of interdependent modules in dependency order",
		Long: `gridbuild discovers module declarations in *.hcl files, applies one shared
build convention to every module unless a module overrides it, and compiles,
tests and runs the modules in dependency order.

Use 'gridbuild <command> --help' for detailed information about a command.`,
		Version:       version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", envDefault("GRIDBUILD_LOG_LEVEL", "info"),
		"Logging level: 'debug', 'info', 'warn' or 'error' ($GRIDBUILD_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", envDefault("GRIDBUILD_LOG_FORMAT", "text"),
		"Log output format: 'text' or 'json' ($GRIDBUILD_LOG_FORMAT)")

	root.AddCommand(
		newBuildCommand(deps, g),
		newPlanCommand(deps, g),
		newGraphCommand(deps, g),
		newHistoryCommand(deps, g),
	)
	return root
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q", args[0])
	}
	return nil
}

func maxOnePath(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usagef("accepts at most one workspace path, received %d", len(args))
	}
	return nil
}

func workspacePath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}

// newApp validates cfg and wires the application. Invalid configuration is
// a usage error.
func newApp(deps Deps, g *globalFlags, cfg app.Config) (*app.App, error) {
	cfg.LogLevel = g.logLevel
	cfg.LogFormat = g.logFormat
	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &usageError{err: err}
	}
	return app.NewApp(deps.Out, deps.Err, validated, deps.Toolchain, deps.Modules...), nil
}
