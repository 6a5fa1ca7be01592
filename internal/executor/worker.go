package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/toolchain"
)

// worker builds the modules it receives on jobs and reports each id on done
// once its slot holds a terminal result.
func (e *Executor) worker(ctx context.Context, workerID int, jobs <-chan string, done chan<- string, slots map[string]*slot) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for id := range jobs {
		mctx, mlog := ctxlog.With(ctx, "workerID", workerID, "module", id)
		mlog.Debug("Worker picked up module.")
		slots[id].set(e.buildModule(mctx, id))
		done <- id
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// buildModule runs compile, then test when declared, then the entry point
// when the module is designated to run.
func (e *Executor) buildModule(ctx context.Context, id string) Result {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	res := Result{Module: id, ExitCode: -1}
	finish := func(status Status, err error) Result {
		res.Status = status
		res.Err = err
		if err != nil {
			res.Detail = err.Error()
		}
		res.Duration = time.Since(start)
		return res
	}

	d, err := e.store.Get(id)
	if err != nil {
		return finish(StatusFailed, err)
	}
	eff := e.resolver.Resolve(d)
	unit := toolchain.Unit{Module: id, Dir: d.Dir, Settings: eff, Output: e.opts.Output}

	logger.Info("▶️ Compiling module", "language_version", eff.LanguageVersion, "preview", eff.PreviewFeatures)
	res.Steps = append(res.Steps, StepCompile)
	diags, err := e.toolchain.Compile(ctx, unit)
	res.Diagnostics = diags
	if err != nil {
		logger.Error("Compilation failed.", "error", err)
		return finish(StatusFailed, &CompileError{Module: id, Diagnostics: diags, Err: err})
	}

	if d.Tests {
		logger.Info("▶️ Testing module", "framework", eff.TestFramework)
		res.Steps = append(res.Steps, StepTest)
		diags, err = e.toolchain.Test(ctx, unit)
		res.Diagnostics = diags
		if err != nil {
			logger.Error("Tests failed.", "error", err)
			return finish(StatusFailed, &TestFailureError{Module: id, Diagnostics: diags, Err: err})
		}
	}

	if d.HasEntryPoint() && (e.opts.RunAll || e.run[id]) {
		logger.Info("▶️ Running module", "entry_point", d.EntryPoint.Name)
		res.Steps = append(res.Steps, StepRun)
		code, err := d.EntryPoint.Runnable.Run(ctx, config.Invocation{
			Module:   id,
			Dir:      d.Dir,
			Args:     d.EntryPoint.Args,
			Settings: eff,
			Stdout:   e.opts.Stdout,
			Stderr:   e.opts.Stderr,
		})
		res.ExitCode = code
		if err != nil || code != 0 {
			runErr := &RunError{Module: id, ExitCode: code, Err: err}
			logger.Error("Entry point failed.", "error", runErr)
			return finish(StatusFailed, runErr)
		}
	}

	logger.Info("✅ Module built", "duration", time.Since(start))
	return finish(StatusSucceeded, nil)
}
