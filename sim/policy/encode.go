package policy

import (
	"github.com/flowshop-sim/flowshop-sim/sim"
)

// FeatureCount is the length of the vector produced by Encode.
const FeatureCount = 9

// noOpFeature is the index of the no-op flag.
const noOpFeature = 1

// Encode builds the value-function input for taking action a in ctx:
//
//	0 bias
//	1 no-op flag
//	2 resource index, scaled to [0,1]
//	3 job work on this resource / largest work
//	4 this resource is the job's best resource
//	5 job rank in the resource's heuristic order, scaled to [0,1]
//	6 clock / horizon hint, capped at 1
//	7 job directly follows the last dispatched job in the heuristic order
//	8 due-date slack after processing / horizon hint, clipped to [-1,1]
//
// Job features are zero for the no-op action.
func Encode(ctx sim.DispatchContext, a sim.Action) []float64 {
	ft := ctx.Features
	x := make([]float64, FeatureCount)
	x[0] = 1
	x[2] = scale(float64(ctx.Resource), float64(ft.Resources-1))
	x[6] = min(float64(ctx.Clock)/float64(ft.HorizonHint), 1)

	if !a.IsJob() {
		x[noOpFeature] = 1
		return x
	}
	j := a.Job()
	work := ft.JobWork[j][ctx.Resource]
	x[3] = float64(work) / float64(ft.MaxWork)
	if ft.BestResource[j] == ctx.Resource {
		x[4] = 1
	}
	rank := ft.Rank[ctx.Resource][j]
	x[5] = scale(float64(rank), float64(ft.Jobs-1))
	if ctx.LastJob != sim.NoJob && rank == ft.Rank[ctx.Resource][ctx.LastJob]+1 {
		x[7] = 1
	}
	slack := float64(ft.DueDates[j]-ctx.Clock-work) / float64(ft.HorizonHint)
	x[8] = max(-1, min(1, slack))
	return x
}

func scale(v, span float64) float64 {
	if span <= 0 {
		return 0
	}
	return v / span
}
