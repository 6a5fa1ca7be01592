package dag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedDependency is returned when a module depends on an id
	// that no descriptor declares.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	// ErrCycle is returned when the depends-on relation is not acyclic.
	ErrCycle = errors.New("dependency cycle")
	// ErrUnknownNode is returned when a query names a module outside the graph.
	ErrUnknownNode = errors.New("unknown module")
)

// UnresolvedDependencyError names the module and the missing dependency.
type UnresolvedDependencyError struct {
	Module  string
	Missing string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("module '%s' depends on unknown module '%s'", e.Module, e.Missing)
}

func (e *UnresolvedDependencyError) Unwrap() error { return ErrUnresolvedDependency }

// CyclicDependencyError lists the modules of one cycle in traversal order.
// Following depends-on from each entry reaches the next, and the last entry
// depends on the first.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	if len(e.Cycle) == 0 {
		return "dependency cycle detected"
	}
	path := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(path, " -> "))
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCycle }

// UnknownNodeError is returned by graph queries for ids the graph lacks.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("module '%s' is not part of the graph", e.ID)
}

func (e *UnknownNodeError) Unwrap() error { return ErrUnknownNode }
