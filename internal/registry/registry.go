package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/specialistvlad/gridbuild/internal/config"
)

// Module is the interface that all built-in entry-point packages implement to
// be registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps entry-point names to their Go behavior. It is safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	entryPoints map[string]config.Runnable
}

// New creates an empty Registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{entryPoints: make(map[string]config.Runnable)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterEntryPoint registers a Runnable under name. Registering the same
// name twice is a programmer error and panics.
func (r *Registry) RegisterEntryPoint(name string, rn config.Runnable) {
	if name == "" {
		panic("entry point name must not be empty")
	}
	if rn == nil {
		panic(fmt.Sprintf("entry point '%s' has a nil runnable", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entryPoints[name]; exists {
		panic(fmt.Sprintf("entry point with name '%s' already registered", name))
	}
	slog.Debug("Registering entry point.", "name", name)
	r.entryPoints[name] = rn
}

// Lookup implements config.EntryPointResolver.
func (r *Registry) Lookup(name string) (config.Runnable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rn, ok := r.entryPoints[name]
	return rn, ok
}

// Names returns the registered entry-point names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entryPoints))
	for name := range r.entryPoints {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
