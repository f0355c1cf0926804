// Package training runs the outer epoch loop: reset the simulator, drive an
// episode to completion, score it and feed the result back into the policy.
package training

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/trace"
)

// Phases.
const (
	PhaseTrain    = "train"
	PhaseEvaluate = "evaluate"
)

// DefaultGamma is the tabular reinforcement step size.
const DefaultGamma = 0.8

// Reinforcer is implemented by tabular policies that learn from the
// dispatches of an improved episode.
type Reinforcer interface {
	Reinforce(records []trace.DispatchRecord, rate float64)
}

// Config groups the training loop parameters.
type Config struct {
	Epochs  int
	Phase   string // "train" (default) updates the policy's parameters; "evaluate" only reinforces on improvement
	Gamma   float64
	Weights sim.RewardWeights
}

// Result is the best episode found by Run.
type Result struct {
	Objectives  sim.Objectives
	Reward      float64
	BestEpoch   int
	Assignments [][]sim.JobID // per resource, dispatch order of the best episode
	Start       []int64
	Completion  []int64
	Rewards     []float64 // reward of every epoch, in order
	Elapsed     time.Duration
}

// Trainer drives a Simulator through Config.Epochs episodes.
type Trainer struct {
	Sim    *sim.Simulator
	Config Config
}

// NewTrainer creates a Trainer. Decision tracing is switched on because
// parameter updates read the recorded dispatches.
// Panics if s is nil or cfg.Epochs < 1.
func NewTrainer(s *sim.Simulator, cfg Config) *Trainer {
	if s == nil {
		panic("NewTrainer: simulator must not be nil")
	}
	if cfg.Epochs < 1 {
		panic(fmt.Sprintf("NewTrainer: epochs must be at least 1, got %d", cfg.Epochs))
	}
	if cfg.Phase == "" {
		cfg.Phase = PhaseTrain
	}
	if cfg.Gamma == 0 {
		cfg.Gamma = DefaultGamma
	}
	if s.TraceConfig.Level != trace.TraceLevelDecisions {
		s.TraceConfig.Level = trace.TraceLevelDecisions
	}
	return &Trainer{Sim: s, Config: cfg}
}

// Run executes all epochs and returns the best episode. Any episode error
// aborts the run; the simulator must be Reset before reuse.
func (t *Trainer) Run() (*Result, error) {
	start := time.Now()
	policy := t.Sim.Policy()
	updater, canUpdate := policy.(sim.ParameterUpdater)
	reinforcer, canReinforce := policy.(Reinforcer)

	var res *Result
	for epoch := 0; epoch < t.Config.Epochs; epoch++ {
		obj, err := t.episode()
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		r := obj.Reward(t.Config.Weights)

		if res == nil {
			res = &Result{BestEpoch: 0, Reward: r}
			t.keep(res, obj, r, epoch)
			res.Rewards = append(res.Rewards, r)
			continue
		}
		res.Rewards = append(res.Rewards, r)

		if t.Config.Phase == PhaseTrain && canUpdate && res.Reward != 0 {
			inputs, predictions := t.Sim.Trace.Predictions()
			updater.Backpropagate((res.Reward-r)/res.Reward, inputs, predictions)
		}

		if r < res.Reward {
			t.keep(res, obj, r, epoch)
			logrus.Infof("epoch %d: new best reward %.2f (makespan %d, total tardiness %d)",
				epoch, r, obj.Makespan, obj.TotalTardiness)
			if canReinforce {
				reinforcer.Reinforce(t.Sim.Trace.Dispatches, t.Config.Gamma)
			}
		} else {
			logrus.Debugf("epoch %d: reward %.2f (best %.2f at epoch %d)", epoch, r, res.Reward, res.BestEpoch)
		}
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func (t *Trainer) episode() (sim.Objectives, error) {
	t.Sim.Reset()
	if _, err := t.Sim.Run(); err != nil {
		return sim.Objectives{}, err
	}
	return t.Sim.Objectives()
}

func (t *Trainer) keep(res *Result, obj sim.Objectives, r float64, epoch int) {
	sched := t.Sim.Schedule
	res.Objectives = obj
	res.Reward = r
	res.BestEpoch = epoch
	res.Assignments = make([][]sim.JobID, len(sched.Assignments))
	for i, a := range sched.Assignments {
		res.Assignments[i] = append([]sim.JobID(nil), a...)
	}
	res.Start = append([]int64(nil), sched.Start...)
	res.Completion = append([]int64(nil), sched.Completion...)
}
