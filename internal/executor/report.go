package executor

import (
	"time"

	"github.com/samber/lo"
	"github.com/specialistvlad/smolix/internal/buildstate"
	"github.com/specialistvlad/smolix/internal/dag"
)

// Result is the outcome of one node.
type Result struct {
	Handle   dag.Handle
	Name     string
	Status   buildstate.Status
	Err      error
	Duration time.Duration
}

// Report summarises a run. Results are listed in plan order.
type Report struct {
	RunID   string
	Results []Result
}

// Count returns the number of results with status st.
func (r *Report) Count(st buildstate.Status) int {
	return lo.CountBy(r.Results, func(res Result) bool { return res.Status == st })
}

// Failed returns the results whose builder returned an error.
func (r *Report) Failed() []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool { return res.Status == buildstate.Failed })
}

// Result looks up the outcome of a node by name.
func (r *Report) Result(name string) (Result, bool) {
	return lo.Find(r.Results, func(res Result) bool { return res.Name == name })
}
