package dag

import (
	"sync"

	"github.com/specialistvlad/smolix/internal/derivation"
)

// Handle is a stable reference to a node in a Graph.
type Handle int

// NoHandle is returned where no node applies.
const NoHandle Handle = -1

// Graph is an arena of derivations and the edges between them. All operations
// on the graph are concurrency-safe; once resolution has finished the graph is
// only ever read.
type Graph struct {
	// mutex protects nodes and index during construction.
	mutex sync.RWMutex
	// nodes is the arena. A node's Handle is its index.
	nodes []*node
	// index maps a derivation name to its handle.
	index map[string]Handle
}

// node is a single vertex in the graph. It is un-exported to enforce
// interaction through handles.
type node struct {
	drv *derivation.Derivation
	// deps are the nodes this node depends on, in insertion order.
	deps []Handle
	// dependents are the nodes depending on this node, in insertion order.
	dependents []Handle
}
