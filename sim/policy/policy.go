// Package policy implements the dispatching strategies the simulator consults
// at free first units: a tabular value table, rule-based orderings and a
// linear function approximator, plus the fixed-order policy used by the
// baseline comparator.
package policy

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/flowshop-sim/flowshop-sim/sim"
)

// DefaultLearningRate is the step size used when Options.LearningRate is zero.
const DefaultLearningRate = 0.01

// Options parameterises NewPolicy.
type Options struct {
	Rule         string     // dispatching rule for "rule" (default "spt")
	LearningRate float64    // step size for "approx" (default DefaultLearningRate)
	RNG          *rand.Rand // weight initialisation for "approx"; nil starts from zero weights
}

// NewPolicy creates a Policy by name.
// Valid names are defined in sim.ValidPolicies (sim/bundle.go).
// Empty string defaults to the tabular policy.
// Panics on unrecognized names.
func NewPolicy(name string, opts Options) sim.Policy {
	if !sim.IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown policy %q", name))
	}
	switch name {
	case "", "tabular":
		return NewTabular()
	case "rule":
		return NewRule(opts.Rule)
	case "approx":
		lr := opts.LearningRate
		if lr == 0 {
			lr = DefaultLearningRate
		}
		if opts.RNG == nil {
			return NewLinearApprox(make([]float64, FeatureCount), lr)
		}
		return RandomLinearApprox(opts.RNG, lr)
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}

// argmax returns the index of the highest score, breaking ties by the
// earliest candidate.
func argmax(scores []float64) int {
	return floats.MaxIdx(scores)
}
