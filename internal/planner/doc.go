// Package planner computes build orders over a resolved derivation graph.
//
// A plan lists every node after all the nodes it depends on, leaves first.
// This is the contract a build executor relies on: a node may start only once
// every node before it that it depends on has completed. Ties between
// independent nodes are broken by derivation name so that a plan is stable
// across runs even though handle numbering is not.
//
// The resolver rejects cycles while loading, but a graph can be assembled by
// other means, so every function here detects cycles itself and fails with a
// *dag.CycleError instead of looping.
package planner
