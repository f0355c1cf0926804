package policy

import (
	"fmt"

	"github.com/flowshop-sim/flowshop-sim/sim"
)

// FixedOrder dispatches jobs in the order of a given permutation: at every
// free first unit it picks the waiting job that comes earliest in the
// permutation. It idles only when no job is a candidate.
type FixedOrder struct {
	position []int
}

// NewFixedOrder creates a FixedOrder policy for a permutation of job ids.
// Panics if perm is not a permutation of 0..len(perm)-1.
func NewFixedOrder(perm []sim.JobID) *FixedOrder {
	pos := make([]int, len(perm))
	for k := range pos {
		pos[k] = -1
	}
	for k, j := range perm {
		if j < 0 || int(j) >= len(perm) || pos[j] != -1 {
			panic(fmt.Sprintf("NewFixedOrder: %v is not a permutation", perm))
		}
		pos[j] = k
	}
	return &FixedOrder{position: pos}
}

// SelectAction implements sim.Policy.
func (f *FixedOrder) SelectAction(ctx sim.DispatchContext) sim.DispatchDecision {
	chosen := sim.NoOp
	for _, a := range ctx.Candidates {
		if !a.IsJob() {
			continue
		}
		if chosen == sim.NoOp || f.position[a.Job()] < f.position[chosen.Job()] {
			chosen = a
		}
	}
	if chosen == sim.NoOp {
		return sim.DispatchDecision{Action: sim.NoOp, Reason: "fixed-order: no candidate"}
	}
	return sim.DispatchDecision{Action: chosen, Reason: fmt.Sprintf("fixed-order[%d]", f.position[chosen.Job()])}
}
