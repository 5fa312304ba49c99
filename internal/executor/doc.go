// Package executor runs a builder over every node of a resolved derivation
// graph in parallel while respecting the dependency partial order.
//
// A node is dispatched only after all of its dependencies completed
// successfully. A failed node marks every transitive dependent as skipped;
// independent branches keep running unless Options.StopOnError is set.
// Builders are invoked at most once per node: dispatch goes through
// buildstate.Store.Claim.
package executor
