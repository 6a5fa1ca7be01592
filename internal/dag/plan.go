package dag

import (
	"container/heap"
	"slices"
)

// Plan is a build order: every module appears after all of its dependencies.
type Plan []string

// Index returns the position of id in the plan, or -1.
func (p Plan) Index(id string) int {
	return slices.Index(p, id)
}

// Plan returns the topological order of the graph. Among modules whose
// dependencies are all placed, the lexically smallest id goes next, so the
// plan is identical for identical input.
func (g *Graph) Plan() Plan {
	indegree := make(map[string]int, len(g.ids))
	var ready ReadyQueue
	for _, id := range g.ids {
		indegree[id] = len(g.deps[id])
		if indegree[id] == 0 {
			ready.Push(id)
		}
	}

	plan := make(Plan, 0, len(g.ids))
	for {
		id, ok := ready.Pop()
		if !ok {
			break
		}
		plan = append(plan, id)
		for _, next := range g.dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				ready.Push(next)
			}
		}
	}
	return plan
}

// ReadyQueue hands out module ids smallest first. The zero value is empty
// and ready to use. It is not safe for concurrent use.
type ReadyQueue struct {
	h idHeap
}

func (q *ReadyQueue) Push(id string) { heap.Push(&q.h, id) }

// Pop removes the smallest id. ok is false when the queue is empty.
func (q *ReadyQueue) Pop() (id string, ok bool) {
	if q.h.Len() == 0 {
		return "", false
	}
	return heap.Pop(&q.h).(string), true
}

func (q *ReadyQueue) Len() int { return q.h.Len() }

// idHeap is a min-heap of module ids.
type idHeap []string

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) { *h = append(*h, x.(string)) }

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
