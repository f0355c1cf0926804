package policy

import (
	"fmt"

	"github.com/flowshop-sim/flowshop-sim/sim"
)

// Rule dispatches the waiting job that ranks first under a fixed ordering:
//   - "spt": least total work on the dispatching resource
//   - "edd": earliest due date
//   - "order": earliest position in the resource's heuristic order
//
// Ties are broken by job id. Rule only idles when no job is a candidate.
type Rule struct {
	Name string
}

// NewRule creates a Rule by name. Empty string defaults to "spt".
// Panics on unrecognized names.
func NewRule(name string) *Rule {
	if !sim.IsValidRule(name) {
		panic(fmt.Sprintf("unknown rule %q", name))
	}
	if name == "" {
		name = "spt"
	}
	return &Rule{Name: name}
}

// SelectAction implements sim.Policy.
func (r *Rule) SelectAction(ctx sim.DispatchContext) sim.DispatchDecision {
	chosen := sim.NoOp
	var bestKey int64
	scores := make(map[sim.Action]float64, len(ctx.Candidates))
	for _, a := range ctx.Candidates {
		if !a.IsJob() {
			continue
		}
		key := r.key(ctx, a.Job())
		scores[a] = -float64(key)
		if chosen == sim.NoOp || key < bestKey || (key == bestKey && a < chosen) {
			chosen, bestKey = a, key
		}
	}
	if chosen == sim.NoOp {
		return sim.DispatchDecision{Action: sim.NoOp, Reason: r.Name + ": no candidate"}
	}
	return sim.DispatchDecision{
		Action: chosen,
		Reason: fmt.Sprintf("%s (key=%d)", r.Name, bestKey),
		Scores: scores,
	}
}

func (r *Rule) key(ctx sim.DispatchContext, job sim.JobID) int64 {
	ft := ctx.Features
	switch r.Name {
	case "spt":
		return ft.JobWork[job][ctx.Resource]
	case "edd":
		return ft.DueDates[job]
	case "order":
		return int64(ft.Rank[ctx.Resource][job])
	default:
		panic(fmt.Sprintf("unhandled rule %q", r.Name))
	}
}
