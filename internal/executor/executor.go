package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/smolix/internal/buildstate"
	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/graph"
	"github.com/specialistvlad/smolix/internal/metrics"
	"github.com/specialistvlad/smolix/internal/planner"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrDependencyFailed is recorded on nodes skipped because a dependency failed.
var ErrDependencyFailed = errors.New("dependency failed")

// Options configures an Executor.
type Options struct {
	// Parallelism is the maximum number of concurrent builds.
	// If <= 0, defaults to runtime.NumCPU().
	Parallelism int
	// StopOnError cancels the run on the first failure. Otherwise only the
	// dependents of a failed node are skipped.
	StopOnError bool
	// Metrics receives build counters. Optional.
	Metrics *metrics.Metrics
}

// Executor walks a graph in dependency order and hands each node to a Builder.
type Executor struct {
	graph   graph.Reader
	builder Builder
	opts    Options
}

// New creates an executor over g.
func New(g graph.Reader, builder Builder, opts Options) *Executor {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	return &Executor{graph: g, builder: builder, opts: opts}
}

// run is the mutable state of a single Execute call.
type run struct {
	*Executor
	state     *buildstate.Store
	indegree  map[dag.Handle]*atomic.Int32
	ready     chan dag.Handle
	remaining atomic.Int64
	stop      context.CancelFunc

	mu        sync.Mutex
	durations map[dag.Handle]time.Duration
}

// Execute builds every node of the graph. Cyclic graphs are rejected before
// any builder runs. The returned report is non-nil whenever the graph was
// acyclic; the error then joins every BuildError and any cancellation cause.
func (e *Executor) Execute(ctx context.Context) (*Report, error) {
	order, err := planner.Plan(e.graph)
	if err != nil {
		return nil, fmt.Errorf("cannot execute graph: %w", err)
	}

	runID := uuid.NewString()
	ctx = ctxlog.With(ctx, "run_id", runID)
	logger := ctxlog.FromContext(ctx)
	logger.Info("Executor starting.", "nodes", len(order), "parallelism", e.opts.Parallelism)

	r := &run{
		Executor:  e,
		state:     buildstate.New(order),
		indegree:  make(map[dag.Handle]*atomic.Int32, len(order)),
		ready:     make(chan dag.Handle, len(order)),
		durations: make(map[dag.Handle]time.Duration, len(order)),
	}
	r.remaining.Store(int64(len(order)))
	for _, h := range order {
		count := new(atomic.Int32)
		count.Store(int32(len(e.graph.Dependencies(h))))
		r.indegree[h] = count
	}
	for _, h := range order {
		if r.indegree[h].Load() == 0 {
			r.ready <- h
		}
	}
	if len(order) == 0 {
		close(r.ready)
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	r.stop = stop

	g, gctx := errgroup.WithContext(runCtx)
	r.dispatch(gctx, g, semaphore.NewWeighted(int64(e.opts.Parallelism)))
	waitErr := g.Wait()

	// Anything still pending was never reached: the run was cancelled.
	for _, h := range order {
		if r.state.Skip(h, context.Canceled) {
			e.opts.Metrics.RecordFinished(metrics.ResultSkipped)
		}
	}

	report := r.report(runID, order)
	var errs []error
	for _, res := range report.Failed() {
		errs = append(errs, &BuildError{Name: res.Name, Err: res.Err})
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		errs = append(errs, ctxErr)
	}
	logger.Info("Executor finished.",
		"completed", report.Count(buildstate.Completed),
		"failed", report.Count(buildstate.Failed),
		"skipped", report.Count(buildstate.Skipped),
	)
	if len(errs) == 0 && waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		errs = append(errs, waitErr)
	}
	return report, errors.Join(errs...)
}

// dispatch starts one build per ready node. The semaphore bounds how many
// of them run at once; dispatch blocks on it until a slot frees up. It
// returns once the queue is closed or the run is cancelled.
func (r *run) dispatch(ctx context.Context, g *errgroup.Group, sem *semaphore.Weighted) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Dispatcher started.")
	defer logger.Debug("Dispatcher finished.")

	for {
		select {
		case <-ctx.Done():
			return
		case h, ok := <-r.ready:
			if !ok {
				return
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			if ctx.Err() != nil {
				sem.Release(1)
				return
			}
			g.Go(func() error {
				err := r.build(ctx, h)
				if err != nil && r.opts.StopOnError {
					// Cancel before the slot is released so that nothing
					// else gets dispatched after the failure.
					r.stop()
				}
				sem.Release(1)
				if err != nil && r.opts.StopOnError {
					return err
				}
				return nil
			})
		}
	}
}

// build runs the builder for h and unlocks or skips its dependents. A build
// that returns context.Canceled after the run was cancelled counts as
// skipped, not failed; its dependents stay pending and are swept up as
// skipped once the run ends.
func (r *run) build(ctx context.Context, h dag.Handle) error {
	if !r.state.Claim(h) {
		return nil
	}
	drv := r.graph.Derivation(h)
	logger := ctxlog.FromContext(ctx).With("name", drv.Name)
	logger.Debug("Building derivation.")

	r.opts.Metrics.BuildsStarted.Inc()
	start := time.Now()
	err := r.builder.Build(ctx, h, drv)
	elapsed := time.Since(start)
	r.opts.Metrics.BuildDuration.Observe(elapsed.Seconds())

	r.mu.Lock()
	r.durations[h] = elapsed
	r.mu.Unlock()

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.Debug("Derivation build interrupted by cancellation.")
		r.state.Abort(h, err)
		r.opts.Metrics.RecordFinished(metrics.ResultSkipped)
		r.finish()
		return nil
	}
	if err != nil {
		logger.Error("Derivation build failed.", "error", err)
		r.state.Fail(h, err)
		r.opts.Metrics.RecordFinished(metrics.ResultFailure)
		r.skipDependents(ctx, h)
		r.finish()
		return err
	}

	logger.Debug("Derivation build succeeded.", "duration", elapsed)
	r.state.Complete(h)
	r.opts.Metrics.RecordFinished(metrics.ResultSuccess)
	for _, dep := range r.graph.Dependents(h) {
		if r.indegree[dep].Add(-1) == 0 {
			logger.Debug("Unlocking dependent.", "dependent", r.graph.Name(dep))
			r.ready <- dep
		}
	}
	r.finish()
	return nil
}

// skipDependents marks every transitive dependent of h as skipped. Nodes
// already skipped through another failed dependency are left alone.
func (r *run) skipDependents(ctx context.Context, h dag.Handle) {
	for _, dep := range r.graph.Dependents(h) {
		if !r.state.Skip(dep, ErrDependencyFailed) {
			continue
		}
		ctxlog.FromContext(ctx).Debug("Skipping dependent of failed node.", "dependent", r.graph.Name(dep))
		r.opts.Metrics.RecordFinished(metrics.ResultSkipped)
		r.skipDependents(ctx, dep)
		r.finish()
	}
}

// finish records one node reaching a terminal state and closes the ready
// queue after the last one.
func (r *run) finish() {
	if r.remaining.Add(-1) == 0 {
		close(r.ready)
	}
}

func (r *run) report(runID string, order []dag.Handle) *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := make([]Result, 0, len(order))
	for _, h := range order {
		results = append(results, Result{
			Handle:   h,
			Name:     r.graph.Name(h),
			Status:   r.state.Status(h),
			Err:      r.state.Err(h),
			Duration: r.durations[h],
		})
	}
	return &Report{RunID: runID, Results: results}
}
