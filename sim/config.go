package sim

// DefaultChangeoverGuard is the number of ticks a unit stays occupied after
// completing a job before it accepts the next one.
const DefaultChangeoverGuard int64 = 1

// DefaultTimestepCost is subtracted from every resource's reward each step.
const DefaultTimestepCost = 1.0

// maxStepsFactor scales the serial makespan bound into the default step limit.
const maxStepsFactor = 100

// EngineConfig groups the Simulator's run-time knobs.
type EngineConfig struct {
	Exploration     float64 // epsilon-greedy exploration probability in [0,1]
	ChangeoverGuard int64   // ticks between completion and idle (>= 0, default 1)
	TimestepCost    float64 // per-step reward penalty per resource
	MaxSteps        int64   // step bound before ErrNonTerminatingEpisode; 0 derives one from the instance
	Seed            int64   // master seed for PartitionedRNG
}

// NewEngineConfig creates an EngineConfig with all fields explicitly set.
func NewEngineConfig(exploration float64, guard int64, timestepCost float64, maxSteps int64, seed int64) EngineConfig {
	return EngineConfig{
		Exploration:     exploration,
		ChangeoverGuard: guard,
		TimestepCost:    timestepCost,
		MaxSteps:        maxSteps,
		Seed:            seed,
	}
}

// DefaultEngineConfig returns a greedy (no exploration) configuration with the
// default changeover guard and timestep cost.
func DefaultEngineConfig() EngineConfig {
	return NewEngineConfig(0, DefaultChangeoverGuard, DefaultTimestepCost, 0, 42)
}

// stepBound returns the configured step limit or derives one from the features'
// serial makespan bound.
func (c EngineConfig) stepBound(ft *FeatureTables) int64 {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	perVisit := c.ChangeoverGuard + 1
	return maxStepsFactor * (ft.HorizonHint + int64(ft.Jobs*ft.UnitsPerStage)*perVisit)
}
