package policy

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/flowshop-sim/flowshop-sim/sim"
)

// LinearApprox ranks candidates with a linear value function over Encode's
// feature vector and dispatches the highest-valued one.
type LinearApprox struct {
	Weights      []float64
	LearningRate float64
}

// NewLinearApprox creates a LinearApprox with the given weights (copied).
// Panics if len(weights) != FeatureCount.
func NewLinearApprox(weights []float64, learningRate float64) *LinearApprox {
	if len(weights) != FeatureCount {
		panic(fmt.Sprintf("NewLinearApprox: %d weights, want %d", len(weights), FeatureCount))
	}
	return &LinearApprox{Weights: append([]float64(nil), weights...), LearningRate: learningRate}
}

// RandomLinearApprox draws initial weights uniformly from [0,1). The no-op
// weight starts at -1 so that an untrained policy never idles while a job is
// waiting.
func RandomLinearApprox(rng *rand.Rand, learningRate float64) *LinearApprox {
	w := make([]float64, FeatureCount)
	for k := range w {
		w[k] = rng.Float64()
	}
	w[noOpFeature] = -1
	return &LinearApprox{Weights: w, LearningRate: learningRate}
}

// Predict implements sim.ValuePredictor.
func (p *LinearApprox) Predict(features []float64) float64 {
	return floats.Dot(p.Weights, features)
}

// SelectAction implements sim.Policy.
func (p *LinearApprox) SelectAction(ctx sim.DispatchContext) sim.DispatchDecision {
	if len(ctx.Candidates) == 0 {
		panic("LinearApprox.SelectAction: empty candidate set")
	}
	inputs := make([][]float64, len(ctx.Candidates))
	values := make([]float64, len(ctx.Candidates))
	scores := make(map[sim.Action]float64, len(ctx.Candidates))
	for k, a := range ctx.Candidates {
		inputs[k] = Encode(ctx, a)
		values[k] = p.Predict(inputs[k])
		scores[a] = values[k]
	}
	best := argmax(values)
	return sim.DispatchDecision{
		Action:   ctx.Candidates[best],
		Reason:   fmt.Sprintf("approx (value=%.3f)", values[best]),
		Scores:   scores,
		Features: inputs[best],
		Value:    values[best],
	}
}

// Backpropagate implements sim.ParameterUpdater. Each recorded input moves the
// weights along itself by LearningRate * errSignal * max(|prediction|, 1),
// averaged over the episode: a positive signal raises the value of the
// recorded choices, a negative one lowers it.
func (p *LinearApprox) Backpropagate(errSignal float64, inputs [][]float64, predictions []float64) {
	if len(inputs) == 0 || errSignal == 0 || math.IsNaN(errSignal) || math.IsInf(errSignal, 0) {
		return
	}
	if len(inputs) != len(predictions) {
		panic(fmt.Sprintf("Backpropagate: %d inputs, %d predictions", len(inputs), len(predictions)))
	}
	n := float64(len(inputs))
	for k, x := range inputs {
		step := p.LearningRate * errSignal * math.Max(math.Abs(predictions[k]), 1) / n
		floats.AddScaled(p.Weights, step, x)
	}
}

// Parameters implements Persistable.
func (p *LinearApprox) Parameters() ParameterFile {
	return ParameterFile{Kind: KindApprox, Weights: append([]float64(nil), p.Weights...)}
}

// SetParameters implements Persistable.
func (p *LinearApprox) SetParameters(pf ParameterFile) error {
	if pf.Kind != KindApprox {
		return fmt.Errorf("parameter kind %q, want %q", pf.Kind, KindApprox)
	}
	if len(pf.Weights) != FeatureCount {
		return fmt.Errorf("%d weights, want %d", len(pf.Weights), FeatureCount)
	}
	p.Weights = append([]float64(nil), pf.Weights...)
	return nil
}
