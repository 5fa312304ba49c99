// Package buildstate tracks the mutable execution state of every node during
// one build run.
//
// # Why Build State Exists
//
// The resolved graph is shared read-only by every consumer, so the executor
// cannot record progress on the nodes themselves. The store keeps that state
// beside the graph, keyed by handle.
//
// # At-most-once
//
// Claim is the single entry point to the Running state and is a
// compare-and-swap from Pending. However many workers race to dispatch the
// same node, exactly one Claim succeeds, so a builder is invoked at most once
// per node even under parallel scheduling.
//
// # State Transitions
//
//	Pending → Running → Completed
//	Pending → Running → Failed
//	Pending → Skipped
package buildstate

import (
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/smolix/internal/dag"
)

// Status is the execution status of one node.
type Status int32

const (
	// Pending means the node has not been dispatched yet.
	Pending Status = iota
	// Running means a worker has claimed the node.
	Running
	// Completed means the builder succeeded.
	Completed
	// Failed means the builder returned an error.
	Failed
	// Skipped means the node will not run because a dependency failed or the
	// run was cancelled.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Store holds the status and error of every node in a run. It is safe for
// concurrent use. The set of nodes is fixed at construction so that the
// state map itself is never written during the run.
type Store struct {
	states map[dag.Handle]*atomic.Int32
	errors sync.Map // Key: dag.Handle, Value: error
}

// New creates a store with every handle Pending.
func New(handles []dag.Handle) *Store {
	s := &Store{states: make(map[dag.Handle]*atomic.Int32, len(handles))}
	for _, h := range handles {
		s.states[h] = new(atomic.Int32)
	}
	return s
}

// Claim moves h from Pending to Running. It reports whether this call won.
func (s *Store) Claim(h dag.Handle) bool {
	return s.transition(h, Pending, Running)
}

// Complete moves h from Running to Completed.
func (s *Store) Complete(h dag.Handle) bool {
	return s.transition(h, Running, Completed)
}

// Fail moves h from Running to Failed and records err.
func (s *Store) Fail(h dag.Handle, err error) bool {
	if !s.transition(h, Running, Failed) {
		return false
	}
	s.errors.Store(h, err)
	return true
}

// Skip moves h from Pending to Skipped and records why. It reports whether
// this call performed the transition.
func (s *Store) Skip(h dag.Handle, reason error) bool {
	if !s.transition(h, Pending, Skipped) {
		return false
	}
	if reason != nil {
		s.errors.Store(h, reason)
	}
	return true
}

// Abort moves h from Running to Skipped. It is used for builds interrupted
// by cancellation of the run rather than by a failure of their own.
func (s *Store) Abort(h dag.Handle, reason error) bool {
	if !s.transition(h, Running, Skipped) {
		return false
	}
	if reason != nil {
		s.errors.Store(h, reason)
	}
	return true
}

// Status returns the current status of h. Unknown handles report Pending.
func (s *Store) Status(h dag.Handle) Status {
	st, ok := s.states[h]
	if !ok {
		return Pending
	}
	return Status(st.Load())
}

// Err returns the error recorded for h, if any.
func (s *Store) Err(h dag.Handle) error {
	err, ok := s.errors.Load(h)
	if !ok {
		return nil
	}
	return err.(error)
}

// Snapshot returns the status of every node.
func (s *Store) Snapshot() map[dag.Handle]Status {
	out := make(map[dag.Handle]Status, len(s.states))
	for h, st := range s.states {
		out[h] = Status(st.Load())
	}
	return out
}

func (s *Store) transition(h dag.Handle, from, to Status) bool {
	st, ok := s.states[h]
	if !ok {
		return false
	}
	return st.CompareAndSwap(int32(from), int32(to))
}
