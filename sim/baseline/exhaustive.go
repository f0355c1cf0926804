// Package baseline provides a comparator for calibrating learned policies:
// exhaustive search over job permutations, each evaluated by running the
// simulator with a fixed-order policy.
package baseline

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/policy"
	"github.com/flowshop-sim/flowshop-sim/sim/trace"
)

// DefaultMaxJobs bounds the instance size Exhaustive accepts (8! = 40320 runs).
const DefaultMaxJobs = 8

// Result is the best permutation schedule found.
type Result struct {
	Permutation []sim.JobID
	Objectives  sim.Objectives
	Reward      float64
	Evaluations int
	Duration    time.Duration
}

// Exhaustive evaluates every dispatch permutation of an instance.
type Exhaustive struct {
	MaxJobs         int   // refuse instances with more jobs (0 = DefaultMaxJobs)
	ChangeoverGuard int64 // passed to the simulator
}

// Solve returns the permutation with the lowest reward under w.
// Exploration is disabled for every evaluation.
func (e *Exhaustive) Solve(inst *sim.Instance, w sim.RewardWeights) (*Result, error) {
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instance: %w", err)
	}
	limit := e.MaxJobs
	if limit == 0 {
		limit = DefaultMaxJobs
	}
	if inst.Jobs > limit {
		return nil, fmt.Errorf("exhaustive search over %d jobs exceeds the limit of %d", inst.Jobs, limit)
	}

	start := time.Now()
	cfg := sim.DefaultEngineConfig()
	cfg.ChangeoverGuard = e.ChangeoverGuard

	perm := make([]sim.JobID, inst.Jobs)
	for j := range perm {
		perm[j] = sim.JobID(j)
	}

	var best *Result
	var failure error
	evaluations := 0
	permute(perm, func(p []sim.JobID) bool {
		s, err := sim.NewSimulator(inst, policy.NewFixedOrder(p), cfg, trace.TraceConfig{Level: trace.TraceLevelNone})
		if err != nil {
			failure = err
			return false
		}
		if _, err := s.Run(); err != nil {
			failure = fmt.Errorf("permutation %v: %w", p, err)
			return false
		}
		obj, err := s.Objectives()
		if err != nil {
			failure = err
			return false
		}
		evaluations++
		r := obj.Reward(w)
		if best == nil || r < best.Reward {
			best = &Result{Permutation: append([]sim.JobID(nil), p...), Objectives: obj, Reward: r}
			logrus.Debugf("baseline: permutation %v reward %.2f", p, r)
		}
		return true
	})
	if failure != nil {
		return nil, failure
	}
	best.Evaluations = evaluations
	best.Duration = time.Since(start)
	return best, nil
}

// permute calls visit for every permutation of a (Heap's algorithm, iterative).
// Enumeration stops early when visit returns false.
func permute(a []sim.JobID, visit func([]sim.JobID) bool) {
	if !visit(a) {
		return
	}
	c := make([]int, len(a))
	for i := 1; i < len(a); {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			if !visit(a) {
				return
			}
			c[i]++
			i = 1
		} else {
			c[i] = 0
			i++
		}
	}
}
