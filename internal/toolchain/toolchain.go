// Package toolchain runs the compile and test steps of a module.
//
// The orchestrator only needs two collaborators, a Compiler and a
// TestRunner. Command implements both by running external programs
// configured through the effective Settings of each module.
package toolchain

import (
	"context"
	"io"

	"github.com/specialistvlad/gridbuild/internal/config"
)

// Unit is one module's worth of work handed to the toolchain.
type Unit struct {
	Module   string
	Dir      string
	Settings config.Settings
	// Output receives the live output of external programs. It may be nil.
	Output io.Writer
}

// Compiler compiles a module. The returned diagnostics are the tool's
// combined output and are useful even when err is nil.
type Compiler interface {
	Compile(ctx context.Context, u Unit) (diagnostics string, err error)
}

// TestRunner runs a module's tests with the configured test framework.
type TestRunner interface {
	Test(ctx context.Context, u Unit) (diagnostics string, err error)
}

// Toolchain bundles both steps.
type Toolchain interface {
	Compiler
	TestRunner
}
