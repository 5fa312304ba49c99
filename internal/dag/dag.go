package dag

import (
	"fmt"

	"github.com/specialistvlad/smolix/internal/derivation"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]Handle),
	}
}

// AddNode inserts drv and returns its handle. If a node with the same name
// already exists, its handle is returned instead and inserted is false.
func (g *Graph) AddNode(drv *derivation.Derivation) (h Handle, inserted bool) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if existing, ok := g.index[drv.Name]; ok {
		return existing, false
	}

	h = Handle(len(g.nodes))
	g.nodes = append(g.nodes, &node{drv: drv})
	g.index[drv.Name] = h
	return h, true
}

// AddEdge records that `from` depends on `to`. Adding an existing edge is a
// no-op. An error is returned if either handle is unknown or if the edge would
// be a self-reference.
func (g *Graph) AddEdge(from, to Handle) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %d -> %d", from, from)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.valid(from) {
		return fmt.Errorf("source node not found: %d", from)
	}
	if !g.valid(to) {
		return fmt.Errorf("destination node not found: %d", to)
	}

	fromNode := g.nodes[from]
	for _, dep := range fromNode.deps {
		if dep == to {
			return nil
		}
	}
	fromNode.deps = append(fromNode.deps, to)
	g.nodes[to].dependents = append(g.nodes[to].dependents, from)
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Lookup returns the handle of the node with the given derivation name.
func (g *Graph) Lookup(name string) (Handle, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	h, ok := g.index[name]
	return h, ok
}

// Derivation returns the descriptor stored at h, or nil for an unknown handle.
func (g *Graph) Derivation(h Handle) *derivation.Derivation {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if !g.valid(h) {
		return nil
	}
	return g.nodes[h].drv
}

// Name returns the derivation name stored at h, or "" for an unknown handle.
func (g *Graph) Name(h Handle) string {
	if drv := g.Derivation(h); drv != nil {
		return drv.Name
	}
	return ""
}

// Dependencies returns the handles h depends on, in insertion order.
func (g *Graph) Dependencies(h Handle) []Handle {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if !g.valid(h) {
		return nil
	}
	return append([]Handle(nil), g.nodes[h].deps...)
}

// Dependents returns the handles depending on h, in insertion order.
func (g *Graph) Dependents(h Handle) []Handle {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if !g.valid(h) {
		return nil
	}
	return append([]Handle(nil), g.nodes[h].dependents...)
}

// Handles returns every handle in insertion order.
func (g *Graph) Handles() []Handle {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	handles := make([]Handle, len(g.nodes))
	for i := range g.nodes {
		handles[i] = Handle(i)
	}
	return handles
}

// EdgeCount returns the number of dependency edges.
func (g *Graph) EdgeCount() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	count := 0
	for _, n := range g.nodes {
		count += len(n.deps)
	}
	return count
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// describing the first cycle found, or nil.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and known not to be part of a cycle.
	// temporary: on the current recursion stack.
	// unvisited: everything else.
	permanent := make(map[Handle]bool)
	temporary := make(map[Handle]bool)
	var stack []Handle

	var visit func(h Handle) error
	visit = func(h Handle) error {
		if permanent[h] {
			return nil
		}
		if temporary[h] {
			return g.cycleFrom(stack, h)
		}

		temporary[h] = true
		stack = append(stack, h)

		for _, dep := range g.nodes[h].deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(temporary, h)
		permanent[h] = true
		return nil
	}

	for i := range g.nodes {
		if err := visit(Handle(i)); err != nil {
			return err
		}
	}
	return nil
}

// cycleFrom builds a CycleError from the part of stack starting at h.
func (g *Graph) cycleFrom(stack []Handle, h Handle) *CycleError {
	start := 0
	for i, s := range stack {
		if s == h {
			start = i
			break
		}
	}
	names := make([]string, 0, len(stack)-start+1)
	for _, s := range stack[start:] {
		names = append(names, g.nodes[s].drv.Name)
	}
	names = append(names, g.nodes[h].drv.Name)
	return &CycleError{Nodes: names}
}

func (g *Graph) valid(h Handle) bool {
	return h >= 0 && int(h) < len(g.nodes)
}
