package dag

import "sort"

const (
	unvisited = iota
	inProgress
	done
)

// findCycle walks the depends-on relation depth first. Roots and neighbours
// are visited in lexical order so the reported cycle is stable. When the walk
// meets a node that is still in progress, only the stack slice starting at
// that node is returned.
func findCycle(deps map[string][]string) []string {
	roots := make([]string, 0, len(deps))
	for id := range deps {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	state := make(map[string]int, len(deps))
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = inProgress
		path = append(path, id)

		for _, dep := range deps[id] {
			switch state[dep] {
			case inProgress:
				for i, p := range path {
					if p == dep {
						return append([]string{}, path[i:]...)
					}
				}
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range roots {
		if state[id] != unvisited {
			continue
		}
		if cycle := visit(id); cycle != nil {
			return cycle
		}
	}
	return nil
}
