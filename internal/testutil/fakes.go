package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/registry"
	"github.com/specialistvlad/gridbuild/internal/toolchain"
)

// FakeToolchain records calls and fails the modules listed in FailCompile and
// FailTest.
type FakeToolchain struct {
	FailCompile map[string]bool
	FailTest    map[string]bool

	mu       sync.Mutex
	compiled []string
	tested   []string
	units    map[string]toolchain.Unit
}

var _ toolchain.Toolchain = (*FakeToolchain)(nil)

func (f *FakeToolchain) Compile(_ context.Context, u toolchain.Unit) (string, error) {
	f.mu.Lock()
	f.compiled = append(f.compiled, u.Module)
	if f.units == nil {
		f.units = make(map[string]toolchain.Unit)
	}
	f.units[u.Module] = u
	f.mu.Unlock()
	if f.FailCompile[u.Module] {
		return fmt.Sprintf("%s: compilation error", u.Module), fmt.Errorf("exit status 1")
	}
	return "", nil
}

func (f *FakeToolchain) Test(_ context.Context, u toolchain.Unit) (string, error) {
	f.mu.Lock()
	f.tested = append(f.tested, u.Module)
	f.mu.Unlock()
	if f.FailTest[u.Module] {
		return fmt.Sprintf("%s: 1 test failed", u.Module), fmt.Errorf("exit status 1")
	}
	return "", nil
}

// Compiled returns the modules compiled so far, in call order.
func (f *FakeToolchain) Compiled() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.compiled...)
}

// Tested returns the modules tested so far, in call order.
func (f *FakeToolchain) Tested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.tested...)
}

// Unit returns the last unit compiled for module.
func (f *FakeToolchain) Unit(module string) (toolchain.Unit, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.units[module]
	return u, ok
}

// RecordingModule registers a "record" entry point that remembers every
// invocation and exits with ExitCodes[module] (0 by default).
type RecordingModule struct {
	ExitCodes map[string]int

	mu          sync.Mutex
	invocations []config.Invocation
}

func (m *RecordingModule) Register(r *registry.Registry) {
	r.RegisterEntryPoint("record", config.RunnableFunc(m.run))
}

func (m *RecordingModule) run(_ context.Context, inv config.Invocation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invocations = append(m.invocations, inv)
	return m.ExitCodes[inv.Module], nil
}

// Invocations returns a copy of the recorded invocations.
func (m *RecordingModule) Invocations() []config.Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]config.Invocation{}, m.invocations...)
}
