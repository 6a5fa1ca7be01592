package executor

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/gridbuild/internal/convention"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/dag"
	"github.com/specialistvlad/gridbuild/internal/modulestore"
	"github.com/specialistvlad/gridbuild/internal/toolchain"
)

// Options tune a single Execute call.
type Options struct {
	// Parallelism bounds the number of modules built at once. Values below
	// one mean one.
	Parallelism int
	// Run lists modules whose entry point is invoked after a successful
	// build. RunAll invokes every entry point.
	Run    []string
	RunAll bool
	// BuildID identifies the build in reports and listeners. A random UUID
	// is used when empty.
	BuildID string
	// Output receives live toolchain output; Stdout and Stderr are handed
	// to entry points. Nil writers discard.
	Output    io.Writer
	Stdout    io.Writer
	Stderr    io.Writer
	Listeners []Listener
}

// Executor runs the modules of one graph.
type Executor struct {
	graph     *dag.Graph
	store     *modulestore.Store
	resolver  *convention.Resolver
	toolchain toolchain.Toolchain
	opts      Options
	run       map[string]bool
	listeners listeners
}

// New validates opts against the graph and returns an Executor. Every
// module named in opts.Run must be in the graph and declare an entry point.
func New(g *dag.Graph, store *modulestore.Store, resolver *convention.Resolver, tc toolchain.Toolchain, opts Options) (*Executor, error) {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.BuildID == "" {
		opts.BuildID = uuid.NewString()
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	run := make(map[string]bool, len(opts.Run))
	for _, id := range opts.Run {
		if !g.Has(id) {
			return nil, &dag.UnknownNodeError{ID: id}
		}
		d, err := store.Get(id)
		if err != nil {
			return nil, err
		}
		if !d.HasEntryPoint() {
			return nil, &NotRunnableError{Module: id}
		}
		run[id] = true
	}

	return &Executor{
		graph:     g,
		store:     store,
		resolver:  resolver,
		toolchain: tc,
		opts:      opts,
		run:       run,
		listeners: opts.Listeners,
	}, nil
}

// BuildID returns the id used for this executor's report.
func (e *Executor) BuildID() string {
	return e.opts.BuildID
}

// Execute builds every module of the graph in dependency order and returns
// the report. The error is a *CancellationError when ctx was cancelled
// before every module started; the report is complete in that case too.
// Module failures are reported through the report only.
func (e *Executor) Execute(ctx context.Context) (*Report, error) {
	ctx, logger := ctxlog.With(ctx, "build_id", e.opts.BuildID)
	plan := e.graph.Plan()
	report := &Report{BuildID: e.opts.BuildID, Started: time.Now(), Plan: plan}

	logger.Info("🚀 Starting build", "modules", len(plan), "parallelism", e.opts.Parallelism)
	e.listeners.buildStarted(ctx, e.opts.BuildID, plan)

	slots := make(map[string]*slot, len(plan))
	indegree := make(map[string]int, len(plan))
	var ready dag.ReadyQueue
	for _, id := range plan {
		slots[id] = &slot{}
		deps, err := e.graph.Dependencies(id)
		if err != nil {
			return nil, fmt.Errorf("preparing build: %w", err)
		}
		indegree[id] = len(deps)
		if indegree[id] == 0 {
			ready.Push(id)
		}
	}

	// Workers never see cancellation: a module that started runs to the end.
	workCtx := context.WithoutCancel(ctx)
	jobs := make(chan string)
	done := make(chan string, e.opts.Parallelism)
	var wg sync.WaitGroup
	for i := 0; i < e.opts.Parallelism; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			e.worker(workCtx, workerID, jobs, done, slots)
		}(i)
	}

	pending := len(plan)
	inflight := 0
	cancelled := ctx.Done()
	for pending > 0 {
		for ctx.Err() == nil && inflight < e.opts.Parallelism {
			id, ok := ready.Pop()
			if !ok {
				break
			}
			if slots[id].isTerminal() {
				continue
			}
			logger.Debug("Dispatching module.", "module", id)
			e.listeners.moduleStarted(ctx, e.opts.BuildID, id)
			jobs <- id
			inflight++
		}
		if inflight == 0 {
			break
		}

		select {
		case id := <-done:
			inflight--
			pending--
			res := slots[id].get()
			e.listeners.moduleFinished(ctx, e.opts.BuildID, res)
			if res.Status != StatusSucceeded {
				pending -= e.skipDependents(ctx, id, slots)
				continue
			}
			dependents, _ := e.graph.Dependents(id)
			for _, next := range dependents {
				indegree[next]--
				if indegree[next] == 0 && !slots[next].isTerminal() {
					logger.Debug("Unlocking dependent module.", "module", next, "dependency", id)
					ready.Push(next)
				}
			}
		case <-cancelled:
			logger.Warn("Build cancelled, waiting for running modules to finish.", "running", inflight)
			cancelled = nil
		}
	}
	close(jobs)
	wg.Wait()

	var runErr error
	if pending > 0 && ctx.Err() != nil {
		runErr = &CancellationError{Err: context.Cause(ctx)}
		for _, id := range plan {
			r := Result{Module: id, Status: StatusSkipped, ExitCode: -1, Err: runErr, Detail: runErr.Error()}
			if slots[id].set(r) {
				e.listeners.moduleFinished(ctx, e.opts.BuildID, r)
			}
		}
		logger.Warn("Modules not started due to cancellation.", "count", pending)
	}

	report.Results = make([]Result, 0, len(slots))
	for _, s := range slots {
		report.Results = append(report.Results, s.get())
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Module < report.Results[j].Module
	})
	report.Finished = time.Now()

	succeeded, failed, skipped := report.Counts()
	logger.Info("🏁 Build finished",
		"succeeded", succeeded, "failed", failed, "skipped", skipped,
		"duration", report.Finished.Sub(report.Started))
	e.listeners.buildFinished(ctx, report)
	return report, runErr
}

// skipDependents marks every not-yet-terminal transitive dependent of id
// as skipped and returns how many it marked.
func (e *Executor) skipDependents(ctx context.Context, id string, slots map[string]*slot) int {
	logger := ctxlog.FromContext(ctx)
	dependents, _ := e.graph.TransitiveDependents(id)
	n := 0
	for _, dep := range dependents {
		skipErr := &SkippedError{Module: dep, Cause: id}
		r := Result{Module: dep, Status: StatusSkipped, ExitCode: -1, Err: skipErr, Detail: skipErr.Error()}
		if !slots[dep].set(r) {
			continue
		}
		logger.Warn("Skipping dependent module due to upstream failure.", "module", dep, "dependency", id)
		e.listeners.moduleFinished(ctx, e.opts.BuildID, r)
		n++
	}
	return n
}
