package dag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
)

// Graph is a validated, acyclic module dependency graph. Edges run from a
// dependency to its dependent. A Graph is immutable once built and safe for
// concurrent reads.
type Graph struct {
	g          graphlib.Graph[string, string]
	ids        []string
	deps       map[string][]string
	dependents map[string][]string
}

// Build constructs the graph for the given descriptors. Every depends-on id
// must name one of the descriptors, and the relation must be acyclic.
func Build(ctx context.Context, descriptors []*config.ModuleDescriptor) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "modules", len(descriptors))

	known := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		known[d.ID] = struct{}{}
	}

	deps := make(map[string][]string, len(descriptors))
	for _, d := range descriptors {
		seen := make(map[string]struct{}, len(d.DependsOn))
		list := make([]string, 0, len(d.DependsOn))
		for _, dep := range d.DependsOn {
			if _, ok := known[dep]; !ok {
				return nil, &UnresolvedDependencyError{Module: d.ID, Missing: dep}
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			list = append(list, dep)
		}
		sort.Strings(list)
		deps[d.ID] = list
	}
	logger.Debug("Build: Dependencies resolved.")

	if cycle := findCycle(deps); cycle != nil {
		return nil, &CyclicDependencyError{Cycle: cycle}
	}
	logger.Debug("Build: Cycle detection passed.")

	g, err := newGraph(deps)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Graph construction successful.", "nodes", len(g.ids))
	return g, nil
}

func newGraph(deps map[string][]string) (*Graph, error) {
	lg := graphlib.New(graphlib.StringHash, graphlib.Directed())

	ids := make([]string, 0, len(deps))
	for id := range deps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := lg.AddVertex(id); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("adding module '%s' to graph: %w", id, err)
		}
	}

	dependents := make(map[string][]string, len(ids))
	for _, id := range ids {
		for _, dep := range deps[id] {
			if err := lg.AddEdge(dep, id); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("linking '%s' to '%s': %w", id, dep, err)
			}
			dependents[dep] = append(dependents[dep], id)
		}
	}
	for _, id := range ids {
		sort.Strings(dependents[id])
	}

	return &Graph{g: lg, ids: ids, deps: deps, dependents: dependents}, nil
}

// IDs returns every module id in lexical order.
func (g *Graph) IDs() []string {
	return slices.Clone(g.ids)
}

// Len is the number of modules in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.deps[id]
	return ok
}

// Dependencies returns the direct dependencies of id, sorted.
func (g *Graph) Dependencies(id string) ([]string, error) {
	d, ok := g.deps[id]
	if !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	return slices.Clone(d), nil
}

// Dependents returns the modules that directly depend on id, sorted.
func (g *Graph) Dependents(id string) ([]string, error) {
	if !g.Has(id) {
		return nil, &UnknownNodeError{ID: id}
	}
	return slices.Clone(g.dependents[id]), nil
}

// TransitiveDependents returns every module that reaches id through
// depends-on edges, sorted.
func (g *Graph) TransitiveDependents(id string) ([]string, error) {
	if !g.Has(id) {
		return nil, &UnknownNodeError{ID: id}
	}
	var out []string
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.dependents[cur] {
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Subgraph returns the graph restricted to ids and everything they
// transitively depend on.
func (g *Graph) Subgraph(ids []string) (*Graph, error) {
	keep := make(map[string][]string)
	stack := make([]string, 0, len(ids))
	for _, id := range ids {
		if !g.Has(id) {
			return nil, &UnknownNodeError{ID: id}
		}
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := keep[id]; done {
			continue
		}
		keep[id] = g.deps[id]
		stack = append(stack, g.deps[id]...)
	}
	return newGraph(keep)
}

// DOT writes the graph in Graphviz DOT format.
func (g *Graph) DOT(w io.Writer) error {
	if err := draw.DOT(g.g, w, draw.GraphAttribute("rankdir", "LR")); err != nil {
		return fmt.Errorf("rendering graph: %w", err)
	}
	return nil
}
