package sim

import (
	"fmt"
	"math/rand"
)

// Action is a dispatch choice at a first unit: a job id, or one of the
// sentinels below.
type Action int

const (
	// NoOp leaves the first unit idle for this step.
	NoOp Action = -1
	// NoAction is the cleared value of Resource.LastAction.
	NoAction Action = -2
)

// JobAction returns the action that dispatches job.
func JobAction(job JobID) Action {
	return Action(job)
}

// IsJob reports whether the action dispatches a job.
func (a Action) IsJob() bool {
	return a >= 0
}

// Job returns the job dispatched by a. Returns NoJob for sentinels.
func (a Action) Job() JobID {
	if !a.IsJob() {
		return NoJob
	}
	return JobID(a)
}

func (a Action) String() string {
	switch a {
	case NoOp:
		return "no-op"
	case NoAction:
		return "none"
	default:
		return fmt.Sprintf("job_%d", int(a))
	}
}

// DispatchContext is everything a policy sees when a first unit is free.
type DispatchContext struct {
	Resource   int      // resource whose first unit is idle
	State      StateKey // waiting set at the first unit
	Candidates []Action // released waiting jobs in queue order, then NoOp (always last)
	LastJob    JobID    // job most recently dispatched on this resource, NoJob if none
	Clock      int64
	Features   *FeatureTables // static heuristic tables, passed through unmodified
}

// DispatchDecision is a policy's answer for one DispatchContext.
type DispatchDecision struct {
	Action   Action             // must be one of DispatchContext.Candidates
	Reason   string             // human-readable explanation
	Scores   map[Action]float64 // candidate → score (nil for policies without scoring)
	Features []float64          // input vector of the chosen action (value-based policies only)
	Value    float64            // predicted value of the chosen action (value-based policies only)
	Explored bool               // true when chosen by the exploration branch
}

// Policy selects an action at a free first unit.
// Implementations MUST return one of ctx.Candidates and MUST NOT retain ctx.Candidates.
type Policy interface {
	SelectAction(ctx DispatchContext) DispatchDecision
}

// ValuePredictor is implemented by function-approximation policies.
type ValuePredictor interface {
	Predict(features []float64) float64
}

// ParameterUpdater is implemented by policies trained from an episode's
// recorded inputs and predictions. Called by the training loop, never by the
// Simulator.
type ParameterUpdater interface {
	Backpropagate(errSignal float64, inputs [][]float64, predictions []float64)
}

// EpsilonGreedy explores with probability Epsilon by returning a uniformly
// random candidate (NoOp included) and otherwise defers to Inner.
// With Epsilon == 0 the RNG is never consulted.
type EpsilonGreedy struct {
	Inner   Policy
	Epsilon float64
	RNG     *rand.Rand
}

// NewEpsilonGreedy wraps inner with exploration probability epsilon.
// Panics if inner is nil, epsilon is outside [0,1], or rng is nil while epsilon > 0.
func NewEpsilonGreedy(inner Policy, epsilon float64, rng *rand.Rand) *EpsilonGreedy {
	if inner == nil {
		panic("NewEpsilonGreedy: inner policy must not be nil")
	}
	if epsilon < 0 || epsilon > 1 {
		panic(fmt.Sprintf("NewEpsilonGreedy: epsilon %v outside [0,1]", epsilon))
	}
	if epsilon > 0 && rng == nil {
		panic("NewEpsilonGreedy: rng must not be nil when epsilon > 0")
	}
	return &EpsilonGreedy{Inner: inner, Epsilon: epsilon, RNG: rng}
}

// SelectAction implements Policy.
func (e *EpsilonGreedy) SelectAction(ctx DispatchContext) DispatchDecision {
	if len(ctx.Candidates) == 0 {
		panic("EpsilonGreedy.SelectAction: empty candidate set")
	}
	if e.Epsilon > 0 && e.RNG.Float64() < e.Epsilon {
		a := ctx.Candidates[e.RNG.Intn(len(ctx.Candidates))]
		return DispatchDecision{
			Action:   a,
			Reason:   fmt.Sprintf("explore (epsilon=%.2f)", e.Epsilon),
			Explored: true,
		}
	}
	return e.Inner.SelectAction(ctx)
}

// Unwrap returns the wrapped policy.
func (e *EpsilonGreedy) Unwrap() Policy {
	return e.Inner
}
