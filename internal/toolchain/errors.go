package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingSource is returned by the source check when a source dir
	// does not exist or is not a directory.
	ErrMissingSource = errors.New("missing source directory")
	// ErrCommandFailed is returned when an external tool exits non-zero or
	// cannot be started.
	ErrCommandFailed = errors.New("command failed")
)

// MissingSourceError names the offending directory.
type MissingSourceError struct {
	Dir string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("source directory '%s' does not exist", e.Dir)
}

func (e *MissingSourceError) Unwrap() error { return ErrMissingSource }

// CommandError describes a failed external tool invocation. ExitCode is -1
// when the process never started.
type CommandError struct {
	Argv     []string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	if e.ExitCode < 0 {
		return fmt.Sprintf("running '%s': %v", cmd, e.Err)
	}
	return fmt.Sprintf("'%s' exited with status %d", cmd, e.ExitCode)
}

func (e *CommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommandFailed}
	}
	return []error{ErrCommandFailed, e.Err}
}
