package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/gridbuild/internal/dag"
	"github.com/specialistvlad/gridbuild/internal/executor"
	"github.com/specialistvlad/gridbuild/internal/registry"
	"github.com/specialistvlad/gridbuild/internal/toolchain"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks bad arguments or flags.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// Deps are the collaborators handed to the application. Zero values select
// the real implementations.
type Deps struct {
	Out       io.Writer
	Err       io.Writer
	Toolchain toolchain.Toolchain
	Modules   []registry.Module
	// EnvFile is loaded before flags are parsed; a missing file is ignored.
	EnvFile string
}

// Execute runs the command line in args and returns nil or an *ExitError.
func Execute(ctx context.Context, args []string, deps Deps) error {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}
	if deps.EnvFile == "" {
		deps.EnvFile = ".env"
	}
	if err := loadEnvFile(deps.EnvFile); err != nil {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	root := NewRootCommand(deps)
	root.SetArgs(args)
	return toExitError(root.ExecuteContext(ctx))
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		slog.Debug("Loaded environment file.", "path", path)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func toExitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var usageErr *usageError
	switch {
	case errors.As(err, &usageErr),
		errors.Is(err, dag.ErrUnknownNode), errors.Is(err, executor.ErrNotRunnable):
		// --module and --run name modules the workspace does not offer.
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	case errors.Is(err, executor.ErrCancelled), errors.Is(err, context.Canceled):
		return &ExitError{Code: ExitCancelled, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// envDefault returns the value of key, or def when it is unset.
func envDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// parallelismDefault reads GRIDBUILD_PARALLELISM, falling back to the
// number of CPUs.
func parallelismDefault() (int, error) {
	raw := envDefault("GRIDBUILD_PARALLELISM", "")
	if raw == "" {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, usagef("invalid GRIDBUILD_PARALLELISM %q: must be a positive integer", raw)
	}
	return n, nil
}
