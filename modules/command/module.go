package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ErrNoProgram is returned when the entry point has no arguments.
var ErrNoProgram = errors.New("command entry point needs at least a program name")

// Argv places the effective run args right after the program name, the way
// JVM flags precede the main class.
func Argv(inv config.Invocation) []string {
	argv := make([]string, 0, len(inv.Args)+len(inv.Settings.RunArgs))
	argv = append(argv, inv.Args[0])
	argv = append(argv, inv.Settings.RunArgs...)
	return append(argv, inv.Args[1:]...)
}

// Run starts the program in the module directory and returns its exit
// status. Start failures are reported as errors with status -1.
func Run(ctx context.Context, inv config.Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return -1, ErrNoProgram
	}
	argv := Argv(inv)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting process.", "module", inv.Module, "argv", argv, "dir", inv.Dir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		logger.Debug("Process exited.", "module", inv.Module, "code", exitErr.ExitCode())
		return exitErr.ExitCode(), nil
	default:
		return -1, fmt.Errorf("starting '%s': %w", argv[0], err)
	}
}

// Register registers the entry point with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEntryPoint("command", config.RunnableFunc(Run))
}
