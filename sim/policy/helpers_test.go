package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/internal/testutil"
)

// loadFeatures loads a fixture instance and derives its feature tables.
func loadFeatures(t *testing.T, name string) (*sim.Instance, *sim.FeatureTables) {
	t.Helper()
	inst, err := sim.LoadInstance(testutil.InstancePath(t, name))
	require.NoError(t, err)
	return inst, sim.NewFeatureTables(inst)
}

// allCandidates lists every job of ft followed by NoOp.
func allCandidates(ft *sim.FeatureTables) []sim.Action {
	out := make([]sim.Action, 0, ft.Jobs+1)
	for j := 0; j < ft.Jobs; j++ {
		out = append(out, sim.JobAction(sim.JobID(j)))
	}
	return append(out, sim.NoOp)
}

func dispatchContext(ft *sim.FeatureTables, resource int, candidates ...sim.Action) sim.DispatchContext {
	return sim.DispatchContext{
		Resource:   resource,
		Candidates: candidates,
		LastJob:    sim.NoJob,
		Features:   ft,
	}
}
