package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"text/tabwriter"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/convention"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/dag"
	"github.com/specialistvlad/gridbuild/internal/executor"
	"github.com/specialistvlad/gridbuild/internal/hcl_adapter"
	"github.com/specialistvlad/gridbuild/internal/history"
	"github.com/specialistvlad/gridbuild/internal/metrics"
	"github.com/specialistvlad/gridbuild/internal/modulestore"
	"github.com/specialistvlad/gridbuild/internal/notify"
	"github.com/specialistvlad/gridbuild/internal/registry"
	"github.com/specialistvlad/gridbuild/internal/report"
	"github.com/specialistvlad/gridbuild/internal/toolchain"
	"github.com/specialistvlad/gridbuild/internal/watch"
)

// notifyDialTimeout bounds the wait for the progress server.
const notifyDialTimeout = 3 * time.Second

// ErrBuildFailed is matched by BuildFailedError.
var ErrBuildFailed = errors.New("build failed")

// BuildFailedError reports that at least one module did not succeed.
type BuildFailedError struct {
	Failed  []string
	Skipped int
}

func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("build failed: %d module(s) failed %v, %d skipped", len(e.Failed), e.Failed, e.Skipped)
}

func (e *BuildFailedError) Unwrap() error { return ErrBuildFailed }

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	errW         io.Writer
	logger       *slog.Logger
	config       *Config
	registry     *registry.Registry
	loader       *hcl_adapter.Loader
	toolchain    toolchain.Toolchain
	promRegistry *prom.Registry
	recorder     *metrics.PrometheusRecorder
	httpServer   *http.Server
}

// workspace is everything derived from the HCL files for one build.
type workspace struct {
	store    *modulestore.Store
	resolver *convention.Resolver
	graph    *dag.Graph
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// A nil toolchain selects the process-based toolchain.
func NewApp(outW, logW io.Writer, cfg *Config, tc toolchain.Toolchain, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "entry_points", reg.Names())

	if tc == nil {
		tc = toolchain.NewCommand()
	}

	promRegistry := prom.NewRegistry()
	return &App{
		outW:         outW,
		errW:         logW,
		logger:       logger,
		config:       cfg,
		registry:     reg,
		loader:       hcl_adapter.NewLoader(reg),
		toolchain:    tc,
		promRegistry: promRegistry,
		recorder:     metrics.NewPrometheusRecorder(promRegistry),
	}
}

// context attaches the app logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// load reads the workspace and builds the graph, narrowed to the selected
// modules and any module asked to run.
func (a *App) load(ctx context.Context) (*workspace, error) {
	model, err := a.loader.Load(ctx, a.config.WorkspacePath)
	if err != nil {
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	return a.assemble(ctx, model)
}

func (a *App) assemble(ctx context.Context, model *config.Model) (*workspace, error) {
	store, err := modulestore.FromModel(model)
	if err != nil {
		return nil, err
	}
	descriptors := make([]*config.ModuleDescriptor, 0, store.Len())
	for d := range store.All() {
		descriptors = append(descriptors, d)
	}
	graph, err := dag.Build(ctx, descriptors)
	if err != nil {
		return nil, err
	}

	if len(a.config.Modules) > 0 {
		selected := append(append([]string(nil), a.config.Modules...), a.config.Run...)
		if graph, err = graph.Subgraph(selected); err != nil {
			return nil, err
		}
		a.logger.Debug("Narrowed build to selected modules.", "selected", selected, "modules", graph.Len())
	}

	return &workspace{
		store:    store,
		resolver: convention.New(model.Convention),
		graph:    graph,
	}, nil
}

// Plan prints the build order, one module id per line.
func (a *App) Plan(ctx context.Context) error {
	ctx = a.context(ctx)
	ws, err := a.load(ctx)
	if err != nil {
		return err
	}
	for _, id := range ws.graph.Plan() {
		fmt.Fprintln(a.outW, id)
	}
	return nil
}

// Graph prints the dependency graph in DOT format.
func (a *App) Graph(ctx context.Context) error {
	ctx = a.context(ctx)
	ws, err := a.load(ctx)
	if err != nil {
		return err
	}
	return ws.graph.DOT(a.outW)
}

// Run builds the workspace once, or keeps rebuilding on file changes when
// watch mode is on. The health check server lives for the whole run.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)

	if a.config.HealthcheckPort > 0 {
		if _, err := a.startHealthcheckServer(a.config.HealthcheckPort); err != nil {
			return err
		}
		defer a.stopHealthcheckServer()
	}

	if !a.config.Watch {
		return a.Build(ctx)
	}

	rebuild := func(ctx context.Context) {
		if err := a.Build(ctx); err != nil && !errors.Is(err, executor.ErrCancelled) {
			a.logger.Error("Build failed, waiting for changes", "error", err)
		}
	}
	rebuild(ctx)
	err := watch.Watch(ctx, a.config.WorkspacePath, watch.DefaultDebounce, rebuild)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Build loads the workspace and executes it once. The returned error is a
// configuration error, a *BuildFailedError, or the executor's
// *executor.CancellationError.
func (a *App) Build(ctx context.Context) error {
	ctx = a.context(ctx)
	ws, err := a.load(ctx)
	if err != nil {
		return err
	}

	listeners := []executor.Listener{a.recorder}
	if a.config.NotifyURL != "" {
		pub, err := notify.Dial(ctx, a.config.NotifyURL, notifyDialTimeout)
		if err != nil {
			a.logger.Warn("Progress notifications disabled", "error", err)
		} else {
			defer pub.Close()
			listeners = append(listeners, pub)
		}
	}

	exec, err := executor.New(ws.graph, ws.store, ws.resolver, a.toolchain, executor.Options{
		Parallelism: a.config.Parallelism,
		Run:         a.config.Run,
		RunAll:      a.config.RunAll,
		Output:      a.errW,
		Stdout:      a.outW,
		Stderr:      a.errW,
		Listeners:   listeners,
	})
	if err != nil {
		return err
	}

	rep, execErr := exec.Execute(ctx)
	if rep == nil {
		return execErr
	}

	if err := report.WriteTable(a.outW, rep); err != nil {
		return fmt.Errorf("writing report table: %w", err)
	}
	if a.config.ReportPath != "" {
		if err := report.WriteFile(a.config.ReportPath, rep); err != nil {
			return err
		}
		a.logger.Info("📄 Report written", "path", a.config.ReportPath)
	}
	if a.config.HistoryDB != "" {
		if err := a.saveHistory(ctx, rep); err != nil {
			return err
		}
	}

	if execErr != nil {
		return execErr
	}
	if !rep.OK() {
		_, _, skipped := rep.Counts()
		return &BuildFailedError{Failed: rep.Failed(), Skipped: skipped}
	}
	return nil
}

func (a *App) saveHistory(ctx context.Context, rep *executor.Report) error {
	store, err := history.NewSQLiteStore(a.config.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	// Recording survives an interrupted build.
	if err := store.Save(context.WithoutCancel(ctx), rep); err != nil {
		return fmt.Errorf("recording build history: %w", err)
	}
	a.logger.Debug("Build recorded in history.", "db", a.config.HistoryDB, "build_id", rep.BuildID)
	return nil
}

// History prints the most recent builds recorded in the history database.
func (a *App) History(ctx context.Context, limit int) error {
	ctx = a.context(ctx)
	if a.config.HistoryDB == "" {
		return errors.New("history requires a history database")
	}
	store, err := history.NewSQLiteStore(a.config.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	builds, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.outW, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "BUILD\tSTARTED\tDURATION\tOUTCOME\tSUCCEEDED\tFAILED\tSKIPPED")
	for _, b := range builds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			b.ID, b.Started.Format(time.RFC3339), b.Duration().Round(time.Millisecond),
			b.Outcome, b.Succeeded, b.Failed, b.Skipped)
	}
	return tw.Flush()
}
