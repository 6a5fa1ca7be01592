package executor

import (
	"errors"
	"fmt"
)

var (
	ErrCompile     = errors.New("compile failed")
	ErrTestFailure = errors.New("tests failed")
	ErrRun         = errors.New("run failed")
	ErrSkipped     = errors.New("skipped")
	ErrCancelled   = errors.New("build cancelled")
	// ErrNotRunnable is returned when a module designated to run declares no
	// entry point.
	ErrNotRunnable = errors.New("module has no entry point")
)

// CompileError carries the compiler diagnostics of a failed module.
type CompileError struct {
	Module      string
	Diagnostics string
	Err         error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling module '%s': %v", e.Module, e.Err)
}

func (e *CompileError) Unwrap() []error { return []error{ErrCompile, e.Err} }

// TestFailureError carries the test runner output of a failed module.
type TestFailureError struct {
	Module      string
	Diagnostics string
	Err         error
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("testing module '%s': %v", e.Module, e.Err)
}

func (e *TestFailureError) Unwrap() []error { return []error{ErrTestFailure, e.Err} }

// RunError reports an entry point that failed or exited non-zero.
type RunError struct {
	Module   string
	ExitCode int
	Err      error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("running module '%s': %v", e.Module, e.Err)
	}
	return fmt.Sprintf("module '%s' exited with status %d", e.Module, e.ExitCode)
}

func (e *RunError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRun}
	}
	return []error{ErrRun, e.Err}
}

// SkippedError marks a module that never ran because Cause did not succeed.
type SkippedError struct {
	Module string
	Cause  string
}

func (e *SkippedError) Error() string {
	return fmt.Sprintf("skipped: dependency '%s' did not succeed", e.Cause)
}

func (e *SkippedError) Unwrap() error { return ErrSkipped }

// CancellationError is returned by Execute when the build was interrupted.
// It is also recorded on every module that never started.
type CancellationError struct {
	Err error
}

func (e *CancellationError) Error() string {
	if e.Err == nil {
		return ErrCancelled.Error()
	}
	return fmt.Sprintf("%s: %v", ErrCancelled, e.Err)
}

func (e *CancellationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCancelled}
	}
	return []error{ErrCancelled, e.Err}
}

// NotRunnableError names a module passed to Options.Run without an entry
// point.
type NotRunnableError struct {
	Module string
}

func (e *NotRunnableError) Error() string {
	return fmt.Sprintf("module '%s' cannot be run: no entry point declared", e.Module)
}

func (e *NotRunnableError) Unwrap() error { return ErrNotRunnable }
