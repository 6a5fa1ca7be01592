package env_vars

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Run prints the environment variables named in the arguments as KEY=VALUE
// lines, or the whole environment when no names are given. It exits 1 when
// a named variable is unset.
func Run(ctx context.Context, inv config.Invocation) (int, error) {
	logger := ctxlog.FromContext(ctx)

	env := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			env[pair[0]] = pair[1]
		}
	}

	names := inv.Args
	if len(names) == 0 {
		names = make([]string, 0, len(env))
		for k := range env {
			names = append(names, k)
		}
		sort.Strings(names)
	}

	code := 0
	for _, name := range names {
		v, ok := env[name]
		if !ok {
			logger.Warn("Required environment variable is not set.", "module", inv.Module, "name", name)
			fmt.Fprintf(inv.Stderr, "%s is not set\n", name)
			code = 1
			continue
		}
		fmt.Fprintf(inv.Stdout, "%s=%s\n", name, v)
	}
	return code, nil
}

// Register registers the entry point with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEntryPoint("env", config.RunnableFunc(Run))
}
