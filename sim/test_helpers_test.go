package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowshop-sim/flowshop-sim/sim/internal/testutil"
	"github.com/flowshop-sim/flowshop-sim/sim/trace"
)

// sptTestPolicy dispatches the released job with the least total work on the
// context's resource, lowest id on ties. It never idles while a job is available.
// sim/policy has the production rules; this copy avoids an import cycle.
type sptTestPolicy struct{}

func (sptTestPolicy) SelectAction(ctx DispatchContext) DispatchDecision {
	best := NoOp
	var bestWork int64
	for _, a := range ctx.Candidates {
		if !a.IsJob() {
			continue
		}
		w := ctx.Features.JobWork[a.Job()][ctx.Resource]
		if best == NoOp || w < bestWork || (w == bestWork && a < best) {
			best, bestWork = a, w
		}
	}
	return DispatchDecision{Action: best, Reason: "spt"}
}

// noOpTestPolicy always idles.
type noOpTestPolicy struct{}

func (noOpTestPolicy) SelectAction(DispatchContext) DispatchDecision {
	return DispatchDecision{Action: NoOp, Reason: "idle"}
}

// firstTestPolicy takes the first candidate in queue order.
type firstTestPolicy struct{}

func (firstTestPolicy) SelectAction(ctx DispatchContext) DispatchDecision {
	return DispatchDecision{Action: ctx.Candidates[0], Reason: "first"}
}

// recordingPolicy forwards to Inner and keeps a copy of every context it saw.
type recordingPolicy struct {
	Inner    Policy
	Contexts []DispatchContext
}

func (p *recordingPolicy) SelectAction(ctx DispatchContext) DispatchDecision {
	c := ctx
	c.Candidates = append([]Action(nil), ctx.Candidates...)
	p.Contexts = append(p.Contexts, c)
	return p.Inner.SelectAction(ctx)
}

// loadTestInstance loads testdata/instances/<name>.yaml.
func loadTestInstance(t *testing.T, name string) *Instance {
	t.Helper()
	inst, err := LoadInstance(testutil.InstancePath(t, name))
	require.NoError(t, err)
	return inst
}

// newTestSimulator builds a Simulator with tracing disabled.
func newTestSimulator(t *testing.T, inst *Instance, p Policy, cfg EngineConfig) *Simulator {
	t.Helper()
	s, err := NewSimulator(inst, p, cfg, trace.TraceConfig{Level: trace.TraceLevelNone})
	require.NoError(t, err)
	return s
}

// guardConfig returns the default engine configuration with the given changeover guard.
func guardConfig(guard int64) EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.ChangeoverGuard = guard
	return cfg
}

// uniformInstance builds an instance with every job released at 0 and the
// same duration everywhere.
func uniformInstance(jobs, resources, units int, d int64) *Instance {
	inst := &Instance{
		Jobs:         jobs,
		Resources:    resources,
		Units:        units,
		ReleaseDates: make([]int64, jobs),
		DueDates:     make([]int64, jobs),
		Durations:    make([][][]int64, jobs),
	}
	for j := range inst.Durations {
		inst.Durations[j] = make([][]int64, units)
		for q := range inst.Durations[j] {
			inst.Durations[j][q] = make([]int64, resources)
			for i := range inst.Durations[j][q] {
				inst.Durations[j][q][i] = d
			}
		}
	}
	return inst
}

// interval is the occupancy of one unit by one job: [from, to).
type interval struct {
	job      JobID
	from, to int64
}

// unitIntervals collects per (resource, unit) the occupancy intervals of a
// finished schedule, including the changeover guard.
func unitIntervals(s *Simulator) map[string][]interval {
	out := make(map[string][]interval)
	for i, jobs := range s.Schedule.Assignments {
		for _, j := range jobs {
			for q := 0; q < s.Instance.Units; q++ {
				key := fmt.Sprintf("%d/%d", i, q)
				out[key] = append(out[key], interval{
					job:  j,
					from: s.Schedule.UnitStart[j][q],
					to:   s.Schedule.UnitCompletion[j][q] + s.Config().ChangeoverGuard,
				})
			}
		}
	}
	return out
}
