package policy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowshop-sim/flowshop-sim/sim"
)

func TestEncode_JobAndNoOp(t *testing.T) {
	// GIVEN the two-job instance (MaxWork 4, horizon hint 9)
	_, ft := loadFeatures(t, "two_jobs")
	ctx := dispatchContext(ft, 0, 0, 1, sim.NoOp)

	// WHEN job 1 and NoOp are encoded at tick 0
	job := Encode(ctx, 1)
	noop := Encode(ctx, sim.NoOp)

	// THEN the job vector carries its work, rank and slack and NoOp only its flags
	assert.Equal(t, []float64{1, 0, 0, 1, 1, 1, 0, 0, 1.0 / 9.0}, job)
	assert.Equal(t, []float64{1, 1, 0, 0, 0, 0, 0, 0, 0}, noop)
}

func TestEncode_SuccessorFlagAndClipping(t *testing.T) {
	// GIVEN job 0 was dispatched last and the clock is past the horizon
	_, ft := loadFeatures(t, "two_jobs")
	ctx := dispatchContext(ft, 0, 1, sim.NoOp)
	ctx.LastJob = 0
	ctx.Clock = 18

	// WHEN job 1 is encoded
	x := Encode(ctx, 1)

	// THEN it is flagged as the successor and time features are clipped
	assert.Equal(t, 1.0, x[7])
	assert.Equal(t, 1.0, x[6])
	assert.Equal(t, -1.0, x[8])
	assert.Len(t, x, FeatureCount)
}

func TestLinearApprox_SelectAction_RecordsPrediction(t *testing.T) {
	// GIVEN weights that penalise work
	_, ft := loadFeatures(t, "small_3x2")
	w := make([]float64, FeatureCount)
	w[3] = -1
	p := NewLinearApprox(w, 0.1)

	// WHEN it selects on resource 1 among all jobs and NoOp
	dec := p.SelectAction(dispatchContext(ft, 1, allCandidates(ft)...))

	// THEN the NoOp (job features zero) outranks every job, and the chosen input is recorded
	assert.Equal(t, sim.NoOp, dec.Action)
	assert.Equal(t, Encode(dispatchContext(ft, 1), sim.NoOp), dec.Features)
	assert.Equal(t, 0.0, dec.Value)
	assert.Len(t, dec.Scores, ft.Jobs+1)

	// WHEN NoOp is also penalised
	p.Weights[1] = -10
	dec = p.SelectAction(dispatchContext(ft, 1, allCandidates(ft)...))

	// THEN the least-work job on resource 1 wins
	assert.Equal(t, sim.Action(2), dec.Action)
	assert.InDelta(t, -3.0/8.0, dec.Value, 1e-12)
	assert.Equal(t, dec.Value, p.Predict(dec.Features))
}

func TestLinearApprox_Backpropagate(t *testing.T) {
	// GIVEN zero weights and two recorded inputs
	p := NewLinearApprox(make([]float64, FeatureCount), 0.1)
	a := make([]float64, FeatureCount)
	a[0] = 1
	b := make([]float64, FeatureCount)
	b[0], b[1] = 1, 1

	// WHEN an error signal of 0.5 is applied with predictions 0 and 2
	p.Backpropagate(0.5, [][]float64{a, b}, []float64{0, 2})

	// THEN each input moves the weights by lr*err*max(|pred|,1)/n
	assert.InDelta(t, 0.025+0.05, p.Weights[0], 1e-12)
	assert.InDelta(t, 0.05, p.Weights[1], 1e-12)
	assert.Zero(t, p.Weights[2])
}

func TestLinearApprox_Backpropagate_IgnoresDegenerateSignals(t *testing.T) {
	p := NewLinearApprox(make([]float64, FeatureCount), 0.1)
	x := [][]float64{Encode(sim.DispatchContext{Features: &sim.FeatureTables{HorizonHint: 1}}, sim.NoOp)}

	p.Backpropagate(0, x, []float64{1})
	p.Backpropagate(math.NaN(), x, []float64{1})
	p.Backpropagate(math.Inf(1), x, []float64{1})
	p.Backpropagate(1, nil, nil)

	assert.Equal(t, make([]float64, FeatureCount), p.Weights)
	assert.Panics(t, func() { p.Backpropagate(1, x, nil) })
}

func TestLinearApprox_Construction(t *testing.T) {
	assert.Panics(t, func() { NewLinearApprox([]float64{1}, 0.1) })

	w := make([]float64, FeatureCount)
	p := NewLinearApprox(w, 0.1)
	w[0] = 5
	assert.Zero(t, p.Weights[0], "weights are copied")

	r := RandomLinearApprox(rand.New(rand.NewSource(3)), 0.2)
	require.Len(t, r.Weights, FeatureCount)
	for k, v := range r.Weights {
		if k == noOpFeature {
			assert.Equal(t, -1.0, v)
			continue
		}
		assert.True(t, v >= 0 && v < 1)
	}
	assert.Equal(t, 0.2, r.LearningRate)
}

func TestLinearApprox_Parameters(t *testing.T) {
	p := RandomLinearApprox(rand.New(rand.NewSource(1)), 0.1)
	other := NewLinearApprox(make([]float64, FeatureCount), 0.1)

	require.NoError(t, other.SetParameters(p.Parameters()))
	assert.Equal(t, p.Weights, other.Weights)
	assert.Error(t, other.SetParameters(ParameterFile{Kind: KindApprox, Weights: []float64{1}}))
	assert.Error(t, other.SetParameters(ParameterFile{Kind: KindTabular}))
}
