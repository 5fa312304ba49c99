// Package graph provides the read-only view of a resolved derivation graph
// that every downstream consumer (planner, executor, navigator) works with.
//
// # Why Graph Package Exists
//
// The resolver is the only component allowed to mutate a dag.Graph. Once
// resolution completes the graph is shared by several consumers for the rest
// of the session, and none of them may change node or edge data. Reader
// expresses that contract in the type system: it exposes lookups and
// traversal but no AddNode or AddEdge.
//
// # Determinism
//
// Handle numbering follows resolution order and is not a stable identity
// across runs. Helpers in this package that need a stable order (SortByName,
// Roots) sort by derivation name and fall back to the handle only to break
// ties.
package graph
