package sim

// Dispatch is one entry of a resource's realized schedule.
type Dispatch struct {
	Job   JobID
	Start int64
}

// Resource is one production line of the flow shop: an ordered sequence of
// units that every job assigned to it visits in position order.
type Resource struct {
	Index int
	Units []*Unit

	Reward     float64  // accumulated reward; decreases by the timestep cost every step
	PrevState  StateKey // waiting set at the first unit before the current step mutated it
	State      StateKey // waiting set at the first unit
	LastAction Action   // action chosen at the most recent dispatch; NoAction once cleared
	LastJob    JobID    // job dispatched most recently, NoJob before the first dispatch
	Realized   []Dispatch
}

// NewResource creates a resource with units positions 0..units-1.
func NewResource(index, units int) *Resource {
	r := &Resource{Index: index, Units: make([]*Unit, units)}
	for q := range r.Units {
		r.Units[q] = NewUnit(index, q)
	}
	return r
}

// Reset clears rewards and history and resets every unit.
func (r *Resource) Reset(pending *JobQueue, state StateKey) *Resource {
	for _, u := range r.Units {
		u.Reset(pending)
	}
	r.Reward = 0
	r.PrevState = 0
	r.State = state
	r.LastAction = NoAction
	r.LastJob = NoJob
	r.Realized = nil
	return r
}

// First returns the policy-governed unit at position 0.
func (r *Resource) First() *Unit {
	return r.Units[0]
}

// IsLast reports whether q is the final unit position of the resource.
func (r *Resource) IsLast(q int) bool {
	return q == len(r.Units)-1
}
