// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/flowshop-sim/flowshop-sim/sim/trace"
)

// Simulator is the flow-shop MDP: it owns the jobs, resources and schedule of
// one episode, advances integer simulated time and asks the Policy for an
// action whenever a resource's first unit is free.
//
// Within a step the phases run in a fixed order:
// completion resolution → flow resumption → dispatch.
type Simulator struct {
	Instance *Instance
	Features *FeatureTables
	States   StateSpace
	Actions  []Action // every job action followed by NoOp

	// Episode state, rebuilt by Reset.
	Jobs      []*Job
	Resources []*Resource
	Pending   *JobQueue // jobs not yet started on any resource; shared by all first units
	Schedule  *Schedule
	Trace     *trace.SimulationTrace // nil when tracing is disabled
	Clock     int64
	StepCount int64
	Done      bool

	TraceConfig trace.TraceConfig

	config     EngineConfig
	rng        *PartitionedRNG
	policy     Policy // as supplied by the caller
	dispatcher Policy // policy wrapped with exploration
	failure    error
}

// NewSimulator builds a Simulator for inst and resets it for the first episode.
// The policy is never mutated by the Simulator; learned parameters carry over
// across Reset calls untouched.
// Panics if policy is nil.
func NewSimulator(inst *Instance, policy Policy, cfg EngineConfig, traceCfg trace.TraceConfig) (*Simulator, error) {
	if policy == nil {
		panic("NewSimulator: policy must not be nil")
	}
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instance: %w", err)
	}
	if cfg.Exploration < 0 || cfg.Exploration > 1 {
		return nil, fmt.Errorf("exploration must be in [0,1], got %v", cfg.Exploration)
	}
	if cfg.ChangeoverGuard < 0 {
		return nil, fmt.Errorf("changeover guard must be non-negative, got %d", cfg.ChangeoverGuard)
	}
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("max steps must be non-negative, got %d", cfg.MaxSteps)
	}
	if !trace.IsValidTraceLevel(string(traceCfg.Level)) {
		return nil, fmt.Errorf("unknown trace level %q", traceCfg.Level)
	}
	if traceCfg.CounterfactualK < 0 {
		return nil, fmt.Errorf("counterfactual k must be non-negative, got %d", traceCfg.CounterfactualK)
	}

	s := &Simulator{
		Instance:    inst,
		Features:    NewFeatureTables(inst),
		States:      NewStateSpace(inst.Jobs),
		Actions:     make([]Action, 0, inst.Jobs+1),
		Jobs:        make([]*Job, inst.Jobs),
		Resources:   make([]*Resource, inst.Resources),
		TraceConfig: traceCfg,
		config:      cfg,
		rng:         NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		policy:      policy,
	}
	for j := range s.Jobs {
		s.Jobs[j] = &Job{ID: JobID(j), ReleaseDate: inst.ReleaseDates[j], DueDate: inst.DueDates[j]}
		s.Actions = append(s.Actions, JobAction(JobID(j)))
	}
	s.Actions = append(s.Actions, NoOp)
	for i := range s.Resources {
		s.Resources[i] = NewResource(i, inst.Units)
	}

	s.dispatcher = policy
	if cfg.Exploration > 0 {
		s.dispatcher = NewEpsilonGreedy(policy, cfg.Exploration, s.rng.ForSubsystem(SubsystemExploration))
	}

	s.Reset()
	return s, nil
}

// Config returns the engine configuration.
func (s *Simulator) Config() EngineConfig {
	return s.config
}

// Policy returns the policy supplied to NewSimulator, without the exploration wrapper.
func (s *Simulator) Policy() Policy {
	return s.policy
}

// Reset re-initialises all episode state. The policy and the exploration RNG
// stream are preserved.
func (s *Simulator) Reset() {
	all := make([]JobID, len(s.Jobs))
	for j, job := range s.Jobs {
		job.Reset()
		all[j] = job.ID
	}
	s.Pending = NewJobQueue(all...)
	full := StateKey(s.States.Size() - 1)
	for _, r := range s.Resources {
		r.Reset(s.Pending, full)
	}
	s.Schedule = NewSchedule(s.Instance)
	s.Trace = nil
	if s.TraceConfig.Level == trace.TraceLevelDecisions {
		s.Trace = trace.NewSimulationTrace(s.TraceConfig)
	}
	s.Clock = 0
	s.StepCount = 0
	s.Done = false
	s.failure = nil
}

// Step advances the episode to tick now and returns whether every job is done.
// After an error the Simulator is corrupted and must be Reset.
func (s *Simulator) Step(now int64) (bool, error) {
	if s.failure != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptedEngine, s.failure)
	}
	if s.Done {
		return true, nil
	}
	s.Clock = now
	s.StepCount++

	for _, r := range s.Resources {
		r.Reward -= s.config.TimestepCost
		r.PrevState = r.State
	}

	s.resolveCompletions(now)

	if s.allDone() {
		s.Done = true
		logrus.Debugf("[tick %07d] all %d jobs done", now, len(s.Jobs))
		return true, nil
	}

	if err := s.resumeFlow(now); err != nil {
		return false, s.fail(err)
	}
	if err := s.dispatch(now); err != nil {
		return false, s.fail(err)
	}
	return false, nil
}

// Run steps the episode from the current clock until every job is done.
// Returns ErrNonTerminatingEpisode once the step bound is exceeded.
func (s *Simulator) Run() (*Schedule, error) {
	if s.failure != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedEngine, s.failure)
	}
	bound := s.config.stepBound(s.Features)
	start := int64(0)
	if s.StepCount > 0 {
		start = s.Clock + 1
	}
	for z := start; ; z++ {
		if s.StepCount >= bound {
			return nil, s.fail(fmt.Errorf("no completion after %d steps (clock %d, %d jobs pending): %w",
				s.StepCount, s.Clock, s.pendingCount(), ErrNonTerminatingEpisode))
		}
		done, err := s.Step(z)
		if err != nil {
			return nil, err
		}
		if done {
			return s.Schedule, nil
		}
	}
}

// Objectives returns the objectives of the finished episode.
func (s *Simulator) Objectives() (Objectives, error) {
	if !s.Done {
		return Objectives{}, ErrIncompleteSchedule
	}
	return s.Schedule.Objectives()
}

// resolveCompletions records completions and frees units whose idle-transition
// tick has been reached, handing each job to the next unit of its resource.
func (s *Simulator) resolveCompletions(now int64) {
	for _, r := range s.Resources {
		for q, u := range r.Units {
			if u.Completion == now {
				job := u.Processing
				s.Schedule.UnitCompletion[job][q] = now
				if r.IsLast(q) {
					s.Jobs[job].Done = true
					s.Schedule.RecordJobCompletion(job, now)
					logrus.Debugf("[tick %07d] job %d finished on resource %d (tardiness %d)", now, job, r.Index, s.Schedule.Tardiness[job])
				}
			}
			if u.IdleAt == now {
				job := u.Release()
				if !r.IsLast(q) {
					r.Units[q+1].Waiting.Push(job)
				}
			}
		}
	}
}

// resumeFlow starts the oldest waiting job on every idle non-first unit.
func (s *Simulator) resumeFlow(now int64) error {
	for _, r := range s.Resources {
		for _, u := range r.Units[1:] {
			if !u.IsIdle() || u.Waiting.Len() == 0 {
				continue
			}
			job := u.Waiting.Items()[0]
			d, err := s.Instance.Duration(job, u.Position, r.Index)
			if err != nil {
				return err
			}
			u.Waiting.PopFront()
			u.Start(job, now, d, s.config.ChangeoverGuard)
			s.Schedule.UnitStart[job][u.Position] = now
		}
	}
	return nil
}

// dispatch consults the policy at every idle first unit, in resource order.
func (s *Simulator) dispatch(now int64) error {
	for _, r := range s.Resources {
		u := r.First()
		if !u.IsIdle() {
			continue
		}
		state, err := s.States.Key(s.Pending.Items())
		if err != nil {
			return fmt.Errorf("resource %d at tick %d: %w", r.Index, now, err)
		}
		r.State = state

		ctx := DispatchContext{
			Resource:   r.Index,
			State:      state,
			Candidates: s.candidates(now),
			LastJob:    r.LastJob,
			Clock:      now,
			Features:   s.Features,
		}
		dec := s.dispatcher.SelectAction(ctx)
		if !containsAction(ctx.Candidates, dec.Action) {
			panic(fmt.Sprintf("policy %T chose %v, not among candidates %v", s.dispatcher, dec.Action, ctx.Candidates))
		}
		s.record(ctx, dec)

		if !dec.Action.IsJob() {
			r.LastAction = NoAction
			logrus.Debugf("[tick %07d] resource %d idles (%s)", now, r.Index, dec.Reason)
			continue
		}

		job := dec.Action.Job()
		d, err := s.Instance.Duration(job, 0, r.Index)
		if err != nil {
			return err
		}
		s.Pending.Remove(job)
		u.Start(job, now, d, s.config.ChangeoverGuard)
		r.LastAction = dec.Action
		r.LastJob = job
		r.Realized = append(r.Realized, Dispatch{Job: job, Start: now})
		s.Schedule.RecordDispatch(job, r.Index, now)
		logrus.Debugf("[tick %07d] resource %d dispatched job %d until %d (%s)", now, r.Index, job, u.Completion, dec.Reason)
	}

	// Busy resources observe the pool as it stands after this step's dispatches.
	state, err := s.States.Key(s.Pending.Items())
	if err != nil {
		return fmt.Errorf("tick %d: %w", now, err)
	}
	for _, r := range s.Resources {
		r.State = state
	}
	return nil
}

// candidates lists the released pending jobs in queue order, then NoOp.
func (s *Simulator) candidates(now int64) []Action {
	out := make([]Action, 0, s.Pending.Len()+1)
	for _, j := range s.Pending.Items() {
		if s.Jobs[j].Released(now) {
			out = append(out, JobAction(j))
		}
	}
	return append(out, NoOp)
}

func (s *Simulator) record(ctx DispatchContext, dec DispatchDecision) {
	if s.Trace == nil {
		return
	}
	cands := make([]int, len(ctx.Candidates))
	for k, a := range ctx.Candidates {
		cands[k] = int(a)
	}
	top, regret := computeCounterfactual(ctx, dec.Action, dec.Scores, s.TraceConfig.CounterfactualK)
	s.Trace.RecordDispatch(trace.DispatchRecord{
		Resource:   ctx.Resource,
		Clock:      ctx.Clock,
		State:      uint64(ctx.State),
		Action:     int(dec.Action),
		Candidates: cands,
		Explored:   dec.Explored,
		Reason:     dec.Reason,
		Features:   dec.Features,
		Value:      dec.Value,

		TopCandidates: top,
		Regret:        regret,
	})
}

func (s *Simulator) allDone() bool {
	for _, j := range s.Jobs {
		if !j.Done {
			return false
		}
	}
	return true
}

func (s *Simulator) pendingCount() int {
	n := 0
	for _, j := range s.Jobs {
		if !j.Done {
			n++
		}
	}
	return n
}

func (s *Simulator) fail(err error) error {
	s.failure = err
	logrus.Errorf("[tick %07d] episode failed: %v", s.Clock, err)
	return err
}

func containsAction(actions []Action, a Action) bool {
	for _, c := range actions {
		if c == a {
			return true
		}
	}
	return false
}
