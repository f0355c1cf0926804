package sim

import (
	"sort"

	"github.com/flowshop-sim/flowshop-sim/sim/trace"
)

// computeCounterfactual ranks the candidates of a dispatch decision and computes
// regret (how much better the best alternative scored than the chosen action).
//
// When scores is empty (fixed-order policies, exploration), a synthetic
// shortest-work score is used: -(job work on the resource), with NoOp ranked
// below every job. Otherwise candidates the policy did not score are left out.
//
// Returns top-k candidates sorted by score descending and regret (≥ 0).
func computeCounterfactual(ctx DispatchContext, chosen Action, scores map[Action]float64, k int) ([]trace.CandidateScore, float64) {
	if k <= 0 || len(ctx.Candidates) == 0 {
		return nil, 0
	}
	ft := ctx.Features

	synthetic := len(scores) == 0
	all := make([]trace.CandidateScore, 0, len(ctx.Candidates))
	var chosenScore float64
	chosenFound := false
	for _, a := range ctx.Candidates {
		c := trace.CandidateScore{Action: int(a)}
		if a.IsJob() {
			c.Work = ft.JobWork[a.Job()][ctx.Resource]
			c.DueDate = ft.DueDates[a.Job()]
		}
		switch {
		case !synthetic:
			v, ok := scores[a]
			if !ok {
				continue
			}
			c.Score = v
		case a.IsJob():
			c.Score = -float64(c.Work)
		default:
			c.Score = -float64(ft.MaxWork) - 1
		}
		all = append(all, c)
		if a == chosen {
			chosenScore = c.Score
			chosenFound = true
		}
	}
	if !chosenFound {
		return nil, 0
	}

	// Score descending; ties keep candidate (queue) order
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})

	n := min(k, len(all))
	regret := max(all[0].Score-chosenScore, 0)
	return all[:n:n], regret
}
