package sim

import "errors"

// Data-integrity errors. None of them are retried: a Simulator that returned one
// of these from Step or Run refuses further steps until Reset.
var (
	// ErrInvalidStateLookup means a waiting set could not be encoded as a state:
	// a job id outside [0,N) or the same job queued twice.
	ErrInvalidStateLookup = errors.New("invalid state lookup")

	// ErrInconsistentDuration means the duration table has no usable entry for a
	// (job, unit, resource) triple that is being dispatched.
	ErrInconsistentDuration = errors.New("inconsistent duration table")

	// ErrNonTerminatingEpisode means the episode exceeded its step bound without
	// every job finishing.
	ErrNonTerminatingEpisode = errors.New("non-terminating episode")

	// ErrCorruptedEngine is returned by Step and Run after an earlier failure.
	ErrCorruptedEngine = errors.New("simulator is corrupted; call Reset")

	// ErrIncompleteSchedule is returned when objectives are requested before
	// every job has finished.
	ErrIncompleteSchedule = errors.New("schedule is incomplete")
)
