// Defines the Job entity: one unit of work flowing through a resource's units.

package sim

// JobID indexes a job in the Simulator's job arena. Queues, units and resources
// only ever hold JobIDs, never copies of the Job.
type JobID int

// NoJob marks an empty processing slot or "no job dispatched yet".
const NoJob JobID = -1

// Job is a single piece of work with a release date and a due date.
type Job struct {
	ID          JobID
	ReleaseDate int64 // earliest tick at which the job may start on a first unit
	DueDate     int64 // tardiness is measured against this tick
	Done        bool  // set when the job finishes the last unit of its resource
}

// Reset returns the job to its state at the start of an episode.
func (j *Job) Reset() *Job {
	j.Done = false
	return j
}

// Released reports whether the job may be dispatched at the given clock.
func (j *Job) Released(clock int64) bool {
	return j.ReleaseDate <= clock
}
