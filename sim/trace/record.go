// Package trace provides dispatch-decision trace recording for policy analysis
// and training. It does not import sim/ and stores plain data only.
package trace

// NoOpAction mirrors sim.NoOp so records can be interpreted without importing sim.
const NoOpAction = -1

// CandidateScore captures a counterfactual candidate action with its score
// and the static attributes of its job.
type CandidateScore struct {
	Action  int
	Score   float64
	Work    int64 // total work of the job on the dispatching resource; 0 for no-op
	DueDate int64 // 0 for no-op
}

// DispatchRecord captures a single dispatch decision at a free first unit.
type DispatchRecord struct {
	Resource   int
	Clock      int64
	State      uint64    // bit mask of the waiting jobs
	Action     int       // chosen job id, or NoOpAction
	Candidates []int     // legal actions offered to the policy, NoOpAction last
	Explored   bool      // chosen by the exploration branch
	Reason     string
	Features   []float64 // input vector of the chosen action (nil for non value-based policies)
	Value      float64   // predicted value of the chosen action

	TopCandidates []CandidateScore // top-k candidates sorted by score desc (nil if k=0)
	Regret        float64          // best candidate score - score(chosen); 0 if chosen is best
}

// IsNoOp reports whether the decision left the unit idle.
func (r DispatchRecord) IsNoOp() bool {
	return r.Action == NoOpAction
}

// HasPrediction reports whether the record carries a value-function input.
func (r DispatchRecord) HasPrediction() bool {
	return len(r.Features) > 0
}
