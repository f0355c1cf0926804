package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/trace"
)

func TestTabular_Untrained_DispatchesInQueueOrder(t *testing.T) {
	tab := NewTabular()
	dec := tab.SelectAction(sim.DispatchContext{State: 0b110, Candidates: []sim.Action{2, 1, sim.NoOp}})
	assert.Equal(t, sim.Action(2), dec.Action)
	assert.Equal(t, "tabular (value=0.000)", dec.Reason)
	assert.Zero(t, tab.Len(), "selection does not write the table")
}

func TestTabular_Reinforce_PrefersRecordedChoice(t *testing.T) {
	// GIVEN a table reinforced with one decision that chose job 1 over job 0
	tab := NewTabular()
	rec := trace.DispatchRecord{Resource: 0, State: 0b11, Action: 1, Candidates: []int{0, 1, trace.NoOpAction}}

	// WHEN the record is reinforced at rate 0.5
	tab.Reinforce([]trace.DispatchRecord{rec}, 0.5)

	// THEN the chosen entry moves toward 1 and the others stay at 0
	assert.Equal(t, 0.5, tab.Value(0, 0b11, 1))
	assert.Equal(t, 0.0, tab.Value(0, 0b11, 0))
	assert.Equal(t, 3, tab.Len())

	// AND the same context now selects job 1
	dec := tab.SelectAction(sim.DispatchContext{Resource: 0, State: 0b11, Candidates: []sim.Action{0, 1, sim.NoOp}})
	assert.Equal(t, sim.Action(1), dec.Action)

	// AND another resource is unaffected
	dec = tab.SelectAction(sim.DispatchContext{Resource: 1, State: 0b11, Candidates: []sim.Action{0, 1, sim.NoOp}})
	assert.Equal(t, sim.Action(0), dec.Action)
}

func TestTabular_Parameters_RoundTrip(t *testing.T) {
	// GIVEN a reinforced table
	tab := NewTabular()
	tab.Reinforce([]trace.DispatchRecord{
		{Resource: 1, State: 0b101, Action: 2, Candidates: []int{0, 2, trace.NoOpAction}},
		{Resource: 0, State: 0b111, Action: trace.NoOpAction, Candidates: []int{0, trace.NoOpAction}},
	}, 0.8)

	// WHEN its parameters are copied into a fresh table
	pf := tab.Parameters()
	other := NewTabular()
	require.NoError(t, other.SetParameters(pf))

	// THEN entries are sorted and every value is preserved
	require.Len(t, pf.Table, 5)
	assert.Equal(t, 0, pf.Table[0].Resource)
	assert.Equal(t, trace.NoOpAction, pf.Table[0].Action)
	assert.Equal(t, tab.Value(1, 0b101, 2), other.Value(1, 0b101, 2))
	assert.Equal(t, 0.8, other.Value(0, 0b111, sim.NoOp))
	assert.Error(t, other.SetParameters(ParameterFile{Kind: KindApprox}))
}
