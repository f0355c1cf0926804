package sim

import "fmt"

// UnitState is the lifecycle state of a processing unit.
type UnitState string

const (
	UnitIdle       UnitState = "idle"
	UnitProcessing UnitState = "processing"
)

// Unit is one processing station inside a resource. It processes at most one
// job at a time and pulls work from its Waiting queue.
type Unit struct {
	Resource int // index of the owning resource
	Position int // position inside the resource, 0..GV-1

	Processing JobID // job in progress, NoJob while idle
	Completion int64 // tick at which Processing completes, -1 while idle
	IdleAt     int64 // tick at which the unit accepts work again, -1 while idle

	// Waiting is the unit's queue. For Position 0 it is the shared pending pool;
	// for later positions it only receives jobs handed over by the previous unit.
	Waiting *JobQueue
}

// NewUnit creates an idle unit at the given resource and position.
func NewUnit(resource, position int) *Unit {
	return &Unit{
		Resource:   resource,
		Position:   position,
		Processing: NoJob,
		Completion: -1,
		IdleAt:     -1,
		Waiting:    NewJobQueue(),
	}
}

// Reset idles the unit. First units adopt the shared pending pool as their
// waiting queue; later units start with an empty private queue.
func (u *Unit) Reset(pending *JobQueue) *Unit {
	u.Processing = NoJob
	u.Completion = -1
	u.IdleAt = -1
	if u.Position == 0 {
		u.Waiting = pending
	} else {
		u.Waiting = NewJobQueue()
	}
	return u
}

// State returns the unit's lifecycle state.
func (u *Unit) State() UnitState {
	if u.Processing == NoJob {
		return UnitIdle
	}
	return UnitProcessing
}

// IsIdle reports whether the unit can accept a job.
func (u *Unit) IsIdle() bool {
	return u.Processing == NoJob
}

// Start begins processing job at now for duration ticks. The unit stays
// occupied for guard ticks after completion.
// Panics if the unit is busy: a unit processes at most one job at a time.
func (u *Unit) Start(job JobID, now, duration, guard int64) {
	if !u.IsIdle() {
		panic(fmt.Sprintf("unit %d/%d: start job %d while processing job %d", u.Resource, u.Position, job, u.Processing))
	}
	u.Processing = job
	u.Completion = now + duration
	u.IdleAt = u.Completion + guard
}

// Release frees the processing slot and returns the job that was in it.
func (u *Unit) Release() JobID {
	job := u.Processing
	u.Processing = NoJob
	u.Completion = -1
	u.IdleAt = -1
	return job
}
