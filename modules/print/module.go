package print

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Run writes the entry point arguments to stdout, separated by spaces.
func Run(ctx context.Context, inv config.Invocation) (int, error) {
	ctxlog.FromContext(ctx).Debug("Printing arguments.", "module", inv.Module, "args", len(inv.Args))
	if _, err := fmt.Fprintln(inv.Stdout, strings.Join(inv.Args, " ")); err != nil {
		return 1, fmt.Errorf("writing output: %w", err)
	}
	return 0, nil
}

// Register registers the entry point with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEntryPoint("print", config.RunnableFunc(Run))
}
