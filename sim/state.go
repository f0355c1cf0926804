package sim

import (
	"fmt"
	"math/bits"
)

// MaxJobs is the largest job count a StateKey can encode.
const MaxJobs = 63

// StateKey encodes a set of waiting jobs as a bit mask over job ids.
// The encoding is canonical: the same set yields the same key regardless of
// queue order.
type StateKey uint64

// Has reports whether job is a member of the set.
func (k StateKey) Has(job JobID) bool {
	return job >= 0 && job < MaxJobs && k&(1<<uint(job)) != 0
}

// Len returns the number of jobs in the set.
func (k StateKey) Len() int {
	return bits.OnesCount64(uint64(k))
}

// Jobs returns the members of the set in ascending id order.
func (k StateKey) Jobs() []JobID {
	out := make([]JobID, 0, k.Len())
	for rest := uint64(k); rest != 0; rest &= rest - 1 {
		out = append(out, JobID(bits.TrailingZeros64(rest)))
	}
	return out
}

// StateSpace is the power set of N jobs. It is never materialised; states are
// looked up by their canonical key.
type StateSpace struct {
	N int
}

// NewStateSpace creates the state space for n jobs.
// Panics if n is outside [0, MaxJobs].
func NewStateSpace(n int) StateSpace {
	if n < 0 || n > MaxJobs {
		panic(fmt.Sprintf("state space: job count %d outside [0,%d]", n, MaxJobs))
	}
	return StateSpace{N: n}
}

// Size returns the number of states, 2^N.
func (s StateSpace) Size() uint64 {
	return uint64(1) << uint(s.N)
}

// Contains reports whether key is a member of the state space.
func (s StateSpace) Contains(key StateKey) bool {
	return uint64(key) < s.Size()
}

// Key encodes a waiting list. Fails with ErrInvalidStateLookup when a job id
// is out of range or appears twice.
func (s StateSpace) Key(jobs []JobID) (StateKey, error) {
	var key StateKey
	for _, j := range jobs {
		if j < 0 || int(j) >= s.N {
			return 0, fmt.Errorf("job %d outside [0,%d): %w", j, s.N, ErrInvalidStateLookup)
		}
		bit := StateKey(1) << uint(j)
		if key&bit != 0 {
			return 0, fmt.Errorf("job %d queued twice: %w", j, ErrInvalidStateLookup)
		}
		key |= bit
	}
	return key, nil
}
