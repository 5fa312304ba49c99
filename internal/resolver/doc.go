// Package resolver turns a root derivation descriptor into a complete,
// deduplicated dependency graph by recursively loading every descriptor named
// in input_derivations.
//
// # Identity
//
// Nodes are deduplicated by derivation name. Two descriptor files carrying
// the same name resolve to one node. If their content differs, the first one
// loaded wins and a warning is logged; WithStrictNames turns that case into a
// NameConflictError instead.
//
// # Failure
//
// Resolution is all-or-nothing. Any I/O or parse failure, a dependency cycle,
// or a strict name conflict aborts the whole resolution and no graph is
// returned. A cycle is detected while loading through an explicit set of
// descriptors currently being resolved, so malformed input never recurses
// without bound.
package resolver
