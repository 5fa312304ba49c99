// Package navigator presents a resolved derivation graph as an expandable
// tree rooted at one node, with keyboard and mouse driven selection and
// scrolling.
//
// The tree's shape is a pure function of the graph and the expansion map. It
// is recomputed on demand as a depth-first traversal from the root that only
// descends into expanded nodes; the navigator never copies or mutates the
// graph. A dependency shared by several parents appears under each of them,
// and its expansion state is shared by every occurrence.
//
// All operations are total: an empty graph, a zero-height viewport and the
// absence of a selection are valid states, not errors.
package navigator
