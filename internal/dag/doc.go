// Package dag is the storage layer of the resolved build graph. It owns every
// derivation descriptor in a single arena and expresses the "depends on"
// relation as handle-based edges between arena slots, never as pointers
// between descriptors.
//
// Nodes are deduplicated by derivation name through an auxiliary index, so a
// lookup by name is O(1). Handles are assigned in insertion order and stay
// stable for the lifetime of the graph.
package dag
