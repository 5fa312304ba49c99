package graph

import (
	"sort"

	"github.com/specialistvlad/smolix/internal/dag"
)

// Edge is a dependency edge: From depends on To.
type Edge struct {
	From dag.Handle
	To   dag.Handle
}

// SortByName sorts handles in place by derivation name, then by handle.
func SortByName(r Reader, handles []dag.Handle) {
	sort.SliceStable(handles, func(i, j int) bool {
		ni, nj := r.Name(handles[i]), r.Name(handles[j])
		if ni != nj {
			return ni < nj
		}
		return handles[i] < handles[j]
	})
}

// Edges returns every dependency edge of r.
func Edges(r Reader) []Edge {
	var edges []Edge
	for _, h := range r.Handles() {
		for _, dep := range r.Dependencies(h) {
			edges = append(edges, Edge{From: h, To: dep})
		}
	}
	return edges
}

// Roots returns the nodes nothing depends on, sorted by name.
func Roots(r Reader) []dag.Handle {
	var roots []dag.Handle
	for _, h := range r.Handles() {
		if len(r.Dependents(h)) == 0 {
			roots = append(roots, h)
		}
	}
	SortByName(r, roots)
	return roots
}

// Closure returns the set of nodes reachable from root, root included.
func Closure(r Reader, root dag.Handle) map[dag.Handle]struct{} {
	seen := make(map[dag.Handle]struct{})
	if r.Derivation(root) == nil {
		return seen
	}
	stack := []dag.Handle{root}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		stack = append(stack, r.Dependencies(h)...)
	}
	return seen
}
