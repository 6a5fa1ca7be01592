package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/ctxlog"
)

// Command runs the compiler and test command configured in each unit's
// Settings as external processes in the module directory.
type Command struct {
	// Env is appended to the current process environment.
	Env []string
}

var _ Toolchain = (*Command)(nil)

// NewCommand returns a process-backed toolchain.
func NewCommand(env ...string) *Command {
	return &Command{Env: env}
}

// Compile runs Compiler ++ CompilerArgs. With no compiler configured it
// only checks that every source dir exists.
func (c *Command) Compile(ctx context.Context, u Unit) (string, error) {
	logger := ctxlog.FromContext(ctx).With("module", u.Module)
	if len(u.Settings.Compiler) == 0 {
		logger.Debug("No compiler configured, checking source directories.", "dirs", u.Settings.SourceDirs)
		return "", CheckSources(u.Settings.SourceDirs)
	}
	argv := Expand(append(append([]string{}, u.Settings.Compiler...), u.Settings.CompilerArgs...), u)
	logger.Debug("Compiling module.", "argv", argv)
	return c.run(ctx, u, argv)
}

// Test runs TestCommand ++ TestArgs. A module without a test command passes
// with an explanatory note.
func (c *Command) Test(ctx context.Context, u Unit) (string, error) {
	logger := ctxlog.FromContext(ctx).With("module", u.Module)
	if len(u.Settings.TestCommand) == 0 {
		logger.Warn("Tests declared but no test command configured, skipping test step.", "framework", u.Settings.TestFramework)
		return "no test command configured", nil
	}
	argv := Expand(append(append([]string{}, u.Settings.TestCommand...), u.Settings.TestArgs...), u)
	logger.Debug("Testing module.", "argv", argv, "framework", u.Settings.TestFramework)
	return c.run(ctx, u, argv)
}

func (c *Command) run(ctx context.Context, u Unit, argv []string) (string, error) {
	var buf bytes.Buffer
	var out io.Writer = &buf
	if u.Output != nil {
		out = io.MultiWriter(&buf, u.Output)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = u.Dir
	cmd.Stdout = out
	cmd.Stderr = out
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	err := cmd.Run()
	diagnostics := strings.TrimSpace(buf.String())
	if err == nil {
		return diagnostics, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return diagnostics, &CommandError{Argv: argv, ExitCode: exitErr.ExitCode()}
	}
	return diagnostics, &CommandError{Argv: argv, ExitCode: -1, Err: err}
}

// CheckSources verifies that every dir exists and is a directory.
func CheckSources(dirs []string) error {
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return &MissingSourceError{Dir: dir}
			}
			return fmt.Errorf("checking source directory '%s': %w", dir, err)
		}
		if !info.IsDir() {
			return &MissingSourceError{Dir: dir}
		}
	}
	return nil
}
