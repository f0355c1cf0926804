// Records timing and objective data for one simulated episode:
// start and completion times per job and per (job, unit), tardiness,
// per-resource assignments and the derived objectives.

package sim

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Schedule is the record of an episode. Timing arrays are zeroed on creation.
type Schedule struct {
	ReleaseDates []int64
	DueDates     []int64
	Tardiness    []int64

	Start          []int64   // first-unit start per job
	UnitStart      [][]int64 // [job][unit]
	Completion     []int64   // last-unit completion per job
	UnitCompletion [][]int64 // [job][unit]

	Assignments [][]JobID // per resource, jobs in dispatch order
	Finished    []bool    // per job, set together with Completion
}

// NewSchedule allocates a zeroed schedule sized for inst.
func NewSchedule(inst *Instance) *Schedule {
	n, lv, gv := inst.Jobs, inst.Resources, inst.Units
	s := &Schedule{
		ReleaseDates:   append([]int64(nil), inst.ReleaseDates...),
		DueDates:       append([]int64(nil), inst.DueDates...),
		Tardiness:      make([]int64, n),
		Start:          make([]int64, n),
		UnitStart:      make([][]int64, n),
		Completion:     make([]int64, n),
		UnitCompletion: make([][]int64, n),
		Assignments:    make([][]JobID, lv),
		Finished:       make([]bool, n),
	}
	for j := 0; j < n; j++ {
		s.UnitStart[j] = make([]int64, gv)
		s.UnitCompletion[j] = make([]int64, gv)
	}
	for i := range s.Assignments {
		s.Assignments[i] = []JobID{}
	}
	return s
}

// RecordDispatch stores the first-unit start of job on resource.
func (s *Schedule) RecordDispatch(job JobID, resource int, now int64) {
	s.Start[job] = now
	s.UnitStart[job][0] = now
	s.Assignments[resource] = append(s.Assignments[resource], job)
}

// RecordJobCompletion stores the overall completion of job and its tardiness,
// max(0, completion - due date).
func (s *Schedule) RecordJobCompletion(job JobID, now int64) {
	s.Completion[job] = now
	s.Tardiness[job] = max(now-s.DueDates[job], 0)
	s.Finished[job] = true
}

// Complete reports whether every job has finished.
func (s *Schedule) Complete() bool {
	for _, f := range s.Finished {
		if !f {
			return false
		}
	}
	return true
}

// Objectives are the scheduling statistics of a finished episode.
type Objectives struct {
	Makespan       int64   `yaml:"makespan"`        // latest completion - earliest start
	TotalTardiness int64   `yaml:"total_tardiness"` // sum of tardiness
	MaxTardiness   int64   `yaml:"max_tardiness"`
	MeanTardiness  float64 `yaml:"mean_tardiness"`
	TardyJobs      int     `yaml:"tardy_jobs"` // jobs with tardiness > 0
}

// Objectives computes the episode objectives. Only valid once every job has
// finished; returns ErrIncompleteSchedule otherwise.
func (s *Schedule) Objectives() (Objectives, error) {
	if len(s.Finished) == 0 {
		return Objectives{}, fmt.Errorf("no jobs: %w", ErrIncompleteSchedule)
	}
	if !s.Complete() {
		return Objectives{}, ErrIncompleteSchedule
	}

	latest, earliest := s.Completion[0], s.Start[0]
	for j := range s.Completion {
		latest = max(latest, s.Completion[j])
		earliest = min(earliest, s.Start[j])
	}

	tard := make([]float64, len(s.Tardiness))
	var o Objectives
	for j, t := range s.Tardiness {
		tard[j] = float64(t)
		o.TotalTardiness += t
		o.MaxTardiness = max(o.MaxTardiness, t)
		if t > 0 {
			o.TardyJobs++
		}
	}
	o.Makespan = latest - earliest
	o.MeanTardiness = stat.Mean(tard, nil)
	return o, nil
}

// RewardWeights are the coefficients of the scalar episode reward.
// A zero weight disables its term.
type RewardWeights struct {
	Cmax  float64 `yaml:"cmax"`
	Tsum  float64 `yaml:"tsum"`
	Tmax  float64 `yaml:"tmax"`
	Tmean float64 `yaml:"tmean"`
	Tn    float64 `yaml:"tn"`
}

// DefaultRewardWeights weighs makespan and total tardiness equally.
func DefaultRewardWeights() RewardWeights {
	return RewardWeights{Cmax: 1, Tsum: 1}
}

// Vector returns the weights in (Cmax, Tsum, Tmax, Tmean, Tn) order.
func (w RewardWeights) Vector() []float64 {
	return []float64{w.Cmax, w.Tsum, w.Tmax, w.Tmean, w.Tn}
}

// Vector returns the objectives in (Cmax, Tsum, Tmax, Tmean, Tn) order.
func (o Objectives) Vector() []float64 {
	return []float64{float64(o.Makespan), float64(o.TotalTardiness), float64(o.MaxTardiness), o.MeanTardiness, float64(o.TardyJobs)}
}

// Reward is the weighted sum of the objectives. Lower is better.
func (o Objectives) Reward(w RewardWeights) float64 {
	return floats.Dot(w.Vector(), o.Vector())
}

// Print writes the objectives in the same layout the CLI uses.
func (o Objectives) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Schedule Objectives ===")
	fmt.Fprintf(w, "Makespan        : %d ticks\n", o.Makespan)
	fmt.Fprintf(w, "Total Tardiness : %d ticks\n", o.TotalTardiness)
	fmt.Fprintf(w, "Max Tardiness   : %d ticks\n", o.MaxTardiness)
	fmt.Fprintf(w, "Mean Tardiness  : %.2f ticks\n", o.MeanTardiness)
	fmt.Fprintf(w, "Tardy Jobs      : %d\n", o.TardyJobs)
}
