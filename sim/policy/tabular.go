package policy

import (
	"fmt"
	"sort"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/trace"
)

type tableKey struct {
	Resource int
	State    sim.StateKey
	Action   sim.Action
}

// Tabular is a value table over (resource, state, action). It exploits by
// taking the highest-valued candidate; unseen entries are worth zero, so an
// untrained table dispatches in queue order.
type Tabular struct {
	values map[tableKey]float64
}

// NewTabular creates an empty value table.
func NewTabular() *Tabular {
	return &Tabular{values: make(map[tableKey]float64)}
}

// Value returns the table entry for (resource, state, action).
func (t *Tabular) Value(resource int, state sim.StateKey, action sim.Action) float64 {
	return t.values[tableKey{resource, state, action}]
}

// Len returns the number of stored entries.
func (t *Tabular) Len() int {
	return len(t.values)
}

// SelectAction implements sim.Policy.
func (t *Tabular) SelectAction(ctx sim.DispatchContext) sim.DispatchDecision {
	if len(ctx.Candidates) == 0 {
		panic("Tabular.SelectAction: empty candidate set")
	}
	values := make([]float64, len(ctx.Candidates))
	scores := make(map[sim.Action]float64, len(ctx.Candidates))
	for k, a := range ctx.Candidates {
		values[k] = t.Value(ctx.Resource, ctx.State, a)
		scores[a] = values[k]
	}
	best := argmax(values)
	return sim.DispatchDecision{
		Action: ctx.Candidates[best],
		Reason: fmt.Sprintf("tabular (value=%.3f)", values[best]),
		Scores: scores,
	}
}

// Reinforce moves the value of every recorded decision toward 1 and the value
// of the candidates it passed over toward 0, with step size rate. The training
// loop applies it to the dispatches of each new best episode.
func (t *Tabular) Reinforce(records []trace.DispatchRecord, rate float64) {
	for _, r := range records {
		state := sim.StateKey(r.State)
		for _, c := range r.Candidates {
			key := tableKey{r.Resource, state, sim.Action(c)}
			target := 0.0
			if c == r.Action {
				target = 1.0
			}
			t.values[key] += rate * (target - t.values[key])
		}
	}
}

// Parameters implements Persistable. Entries are sorted for stable output.
func (t *Tabular) Parameters() ParameterFile {
	entries := make([]TableEntry, 0, len(t.values))
	for k, v := range t.values {
		entries = append(entries, TableEntry{Resource: k.Resource, State: uint64(k.State), Action: int(k.Action), Value: v})
	}
	sort.Slice(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]
		if ea.Resource != eb.Resource {
			return ea.Resource < eb.Resource
		}
		if ea.State != eb.State {
			return ea.State < eb.State
		}
		return ea.Action < eb.Action
	})
	return ParameterFile{Kind: KindTabular, Table: entries}
}

// SetParameters implements Persistable.
func (t *Tabular) SetParameters(pf ParameterFile) error {
	if pf.Kind != KindTabular {
		return fmt.Errorf("parameter kind %q, want %q", pf.Kind, KindTabular)
	}
	values := make(map[tableKey]float64, len(pf.Table))
	for _, e := range pf.Table {
		values[tableKey{e.Resource, sim.StateKey(e.State), sim.Action(e.Action)}] = e.Value
	}
	t.values = values
	return nil
}
