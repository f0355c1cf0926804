package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions       int
	ExploredCount        int
	NoOpCount            int
	MeanValue            float64     // mean Value over records that carry a prediction
	MeanRegret           float64
	MaxRegret            float64
	DispatchesByResource map[int]int // resource → count of job dispatches (no-ops excluded)
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchesByResource: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Dispatches)
	predicted := 0
	totalValue := 0.0
	totalRegret := 0.0
	for _, r := range st.Dispatches {
		totalRegret += r.Regret
		if r.Regret > summary.MaxRegret {
			summary.MaxRegret = r.Regret
		}
		if r.Explored {
			summary.ExploredCount++
		}
		if r.IsNoOp() {
			summary.NoOpCount++
		} else {
			summary.DispatchesByResource[r.Resource]++
		}
		if r.HasPrediction() {
			predicted++
			totalValue += r.Value
		}
	}
	if summary.TotalDecisions > 0 {
		summary.MeanRegret = totalRegret / float64(summary.TotalDecisions)
	}
	if predicted > 0 {
		summary.MeanValue = totalValue / float64(predicted)
	}

	return summary
}
