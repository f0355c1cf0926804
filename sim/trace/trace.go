package trace

// TraceLevel selects what an episode records.
type TraceLevel string

const (
	TraceLevelNone      TraceLevel = "none"      // nothing is recorded
	TraceLevelDecisions TraceLevel = "decisions" // one record per first-unit dispatch
)

// IsValidTraceLevel reports whether level names a TraceLevel. The empty
// string is accepted and means none.
func IsValidTraceLevel(level string) bool {
	switch TraceLevel(level) {
	case "", TraceLevelNone, TraceLevelDecisions:
		return true
	}
	return false
}

// TraceConfig selects the level and the depth of counterfactual ranking.
type TraceConfig struct {
	Level           TraceLevel
	CounterfactualK int // number of counterfactual candidates per dispatch decision
}

// SimulationTrace holds the dispatch records of the current episode. The
// simulator replaces it on Reset.
type SimulationTrace struct {
	Config     TraceConfig
	Dispatches []DispatchRecord
}

// NewSimulationTrace returns an empty trace.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Dispatches: make([]DispatchRecord, 0),
	}
}

// RecordDispatch appends record in decision order.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	st.Dispatches = append(st.Dispatches, record)
}

// Predictions returns the recorded inputs and predicted values of every
// exploiting decision that carries them, in decision order.
func (st *SimulationTrace) Predictions() (inputs [][]float64, values []float64) {
	if st == nil {
		return nil, nil
	}
	for _, r := range st.Dispatches {
		if r.Explored || !r.HasPrediction() {
			continue
		}
		inputs = append(inputs, r.Features)
		values = append(values, r.Value)
	}
	return inputs, values
}
