package cli

import (
	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/spf13/cobra"
)

func newBuildCommand(deps Deps, g *globalFlags) *cobra.Command {
	var cfg app.Config
	cmd := &cobra.Command{
		Use:   "build [PATH]",
		Short: "Compile, test and run the modules of a workspace",
		Long: `Build every module of the workspace at PATH (default: the current
directory) in dependency order. A module whose dependency failed is skipped;
unrelated modules still build.

Examples:
  gridbuild build
  gridbuild build ./workspace --module mock-api --run mock-api
  gridbuild build --parallelism 1 --report build-report.json`,
		Args: maxOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.WorkspacePath = workspacePath(args)
			if cmd.Flags().Changed("parallelism") {
				if cfg.Parallelism < 1 {
					return usagef("invalid --parallelism %d: must be at least 1", cfg.Parallelism)
				}
			} else {
				n, err := parallelismDefault()
				if err != nil {
					return err
				}
				cfg.Parallelism = n
			}
			a, err := newApp(deps, g, cfg)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&cfg.Modules, "module", "m", nil, "Build only this module and its dependencies (repeatable)")
	flags.IntVarP(&cfg.Parallelism, "parallelism", "p", 0, "Maximum number of modules built at once ($GRIDBUILD_PARALLELISM, default: number of CPUs)")
	flags.StringArrayVar(&cfg.Run, "run", nil, "Invoke the entry point of this module after it builds (repeatable)")
	flags.BoolVar(&cfg.RunAll, "run-all", false, "Invoke every declared entry point")
	flags.StringVar(&cfg.ReportPath, "report", "", "Write the build report to this file (.json, .yaml or .yml)")
	flags.StringVar(&cfg.HistoryDB, "history-db", "", "Record the build in this SQLite database")
	flags.StringVar(&cfg.NotifyURL, "notify-url", "", "Publish progress events to this socket.io namespace URL")
	flags.BoolVarP(&cfg.Watch, "watch", "w", false, "Rebuild whenever a file in the workspace changes")
	flags.IntVar(&cfg.HealthcheckPort, "healthcheck-port", 0, "Serve /health and /metrics on this port. 0 is disabled.")
	return cmd
}

func newPlanCommand(deps Deps, g *globalFlags) *cobra.Command {
	var cfg app.Config
	cmd := &cobra.Command{
		Use:   "plan [PATH]",
		Short: "Print the build order without building",
		Args:  maxOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.WorkspacePath = workspacePath(args)
			a, err := newApp(deps, g, cfg)
			if err != nil {
				return err
			}
			return a.Plan(cmd.Context())
		},
	}
	cmd.Flags().StringArrayVarP(&cfg.Modules, "module", "m", nil, "Plan only this module and its dependencies (repeatable)")
	return cmd
}

func newGraphCommand(deps Deps, g *globalFlags) *cobra.Command {
	var cfg app.Config
	cmd := &cobra.Command{
		Use:   "graph [PATH]",
		Short: "Print the dependency graph in DOT format",
		Long: `Print the module dependency graph in Graphviz DOT format. Edges point
from a dependency to the modules that depend on it.

Examples:
  gridbuild graph | dot -Tsvg > graph.svg`,
		Args: maxOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.WorkspacePath = workspacePath(args)
			a, err := newApp(deps, g, cfg)
			if err != nil {
				return err
			}
			return a.Graph(cmd.Context())
		},
	}
	cmd.Flags().StringArrayVarP(&cfg.Modules, "module", "m", nil, "Graph only this module and its dependencies (repeatable)")
	return cmd
}

func newHistoryCommand(deps Deps, g *globalFlags) *cobra.Command {
	var (
		cfg   app.Config
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent builds recorded with --history-db",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.HistoryDB == "" {
				return usagef("--history-db is required")
			}
			if limit < 1 {
				return usagef("invalid --limit %d: must be at least 1", limit)
			}
			cfg.WorkspacePath = "."
			a, err := newApp(deps, g, cfg)
			if err != nil {
				return err
			}
			return a.History(cmd.Context(), limit)
		},
	}
	cmd.Flags().StringVar(&cfg.HistoryDB, "history-db", "", "SQLite database written by 'build --history-db'")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of builds to list")
	return cmd
}
