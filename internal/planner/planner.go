package planner

import (
	"container/heap"

	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/graph"
)

// Plan returns a topological order of every node in g, dependencies first.
func Plan(g graph.Reader) ([]dag.Handle, error) {
	return plan(g, g.Handles())
}

// PlanFrom returns a topological order of root and everything it
// transitively depends on.
func PlanFrom(g graph.Reader, root dag.Handle) ([]dag.Handle, error) {
	closure := graph.Closure(g, root)
	handles := make([]dag.Handle, 0, len(closure))
	for h := range closure {
		handles = append(handles, h)
	}
	return plan(g, handles)
}

// Levels groups a plan into waves. Every node in a wave depends only on
// nodes of earlier waves, so the members of one wave can be built in
// parallel. Nodes within a wave are sorted by name.
func Levels(g graph.Reader) ([][]dag.Handle, error) {
	order, err := Plan(g)
	if err != nil {
		return nil, err
	}

	level := make(map[dag.Handle]int, len(order))
	var levels [][]dag.Handle
	for _, h := range order {
		l := 0
		for _, dep := range g.Dependencies(h) {
			if level[dep]+1 > l {
				l = level[dep] + 1
			}
		}
		level[h] = l
		if l == len(levels) {
			levels = append(levels, nil)
		}
		levels[l] = append(levels[l], h)
	}
	for _, wave := range levels {
		graph.SortByName(g, wave)
	}
	return levels, nil
}

// plan runs Kahn's algorithm over the subgraph induced by handles.
func plan(g graph.Reader, handles []dag.Handle) ([]dag.Handle, error) {
	member := make(map[dag.Handle]bool, len(handles))
	for _, h := range handles {
		member[h] = true
	}

	// pending counts, per node, the dependencies not yet placed in the order.
	pending := make(map[dag.Handle]int, len(handles))
	ready := &byName{g: g}
	for _, h := range handles {
		count := 0
		for _, dep := range g.Dependencies(h) {
			if member[dep] {
				count++
			}
		}
		pending[h] = count
		if count == 0 {
			ready.items = append(ready.items, h)
		}
	}
	heap.Init(ready)

	order := make([]dag.Handle, 0, len(handles))
	for ready.Len() > 0 {
		h := heap.Pop(ready).(dag.Handle)
		order = append(order, h)
		for _, dependent := range g.Dependents(h) {
			if !member[dependent] {
				continue
			}
			pending[dependent]--
			if pending[dependent] == 0 {
				heap.Push(ready, dependent)
			}
		}
	}

	if len(order) != len(handles) {
		return nil, cycleError(g, pending)
	}
	return order, nil
}

// cycleError extracts one cycle from the nodes that could not be placed.
// Every unplaced node has at least one unplaced dependency, so following
// those dependencies from any unplaced node must revisit a node.
func cycleError(g graph.Reader, pending map[dag.Handle]int) *dag.CycleError {
	var stuck []dag.Handle
	for h, count := range pending {
		if count > 0 {
			stuck = append(stuck, h)
		}
	}
	graph.SortByName(g, stuck)

	position := make(map[dag.Handle]int)
	var path []dag.Handle
	h := stuck[0]
	for {
		if at, seen := position[h]; seen {
			path = append(path[at:], h)
			break
		}
		position[h] = len(path)
		path = append(path, h)

		deps := g.Dependencies(h)
		graph.SortByName(g, deps)
		for _, dep := range deps {
			if pending[dep] > 0 {
				h = dep
				break
			}
		}
	}

	names := make([]string, len(path))
	for i, p := range path {
		names[i] = g.Name(p)
	}
	return &dag.CycleError{Nodes: names}
}

// byName is a min-heap of handles ordered by derivation name, then handle.
type byName struct {
	g     graph.Reader
	items []dag.Handle
}

func (b *byName) Len() int { return len(b.items) }

func (b *byName) Less(i, j int) bool {
	ni, nj := b.g.Name(b.items[i]), b.g.Name(b.items[j])
	if ni != nj {
		return ni < nj
	}
	return b.items[i] < b.items[j]
}

func (b *byName) Swap(i, j int) { b.items[i], b.items[j] = b.items[j], b.items[i] }

func (b *byName) Push(x any) { b.items = append(b.items, x.(dag.Handle)) }

func (b *byName) Pop() any {
	old := b.items
	n := len(old)
	item := old[n-1]
	b.items = old[:n-1]
	return item
}
