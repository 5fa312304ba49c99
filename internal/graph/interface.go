package graph

import (
	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/derivation"
)

// Reader is a read-only view over a resolved derivation graph.
//
// Thread-safety: implementations must be safe for concurrent reads, as the
// executor queries the graph from several workers at once.
type Reader interface {
	// Len returns the number of nodes.
	Len() int
	// Handles returns every node handle in insertion order.
	Handles() []dag.Handle
	// Derivation returns the descriptor behind h, or nil if h is unknown.
	Derivation(h dag.Handle) *derivation.Derivation
	// Name returns the derivation name behind h, or "" if h is unknown.
	Name(h dag.Handle) string
	// Lookup finds a node by derivation name.
	Lookup(name string) (dag.Handle, bool)
	// Dependencies returns the nodes h depends on.
	Dependencies(h dag.Handle) []dag.Handle
	// Dependents returns the nodes that depend on h.
	Dependents(h dag.Handle) []dag.Handle
}

var _ Reader = (*dag.Graph)(nil)
