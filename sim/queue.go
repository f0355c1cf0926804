// Implements the JobQueue, which holds the ids of jobs waiting at a unit.
// Jobs are enqueued when they are released or handed over from the previous unit.

package sim

import (
	"fmt"
	"strings"
)

// JobQueue is a FIFO queue of job ids waiting to be processed on a unit.
// The first units of all resources share one JobQueue: the pool of jobs that
// have not started on any resource yet.
type JobQueue struct {
	queue []JobID
}

// NewJobQueue creates a queue holding ids in the given order.
func NewJobQueue(ids ...JobID) *JobQueue {
	q := &JobQueue{queue: make([]JobID, 0, len(ids))}
	q.queue = append(q.queue, ids...)
	return q
}

// Push adds a job to the back of the queue.
func (q *JobQueue) Push(id JobID) {
	q.queue = append(q.queue, id)
}

// PopFront removes and returns the job at the front of the queue.
// Returns NoJob if the queue is empty.
func (q *JobQueue) PopFront() JobID {
	if len(q.queue) == 0 {
		return NoJob
	}
	id := q.queue[0]
	q.queue = q.queue[1:]
	return id
}

// Remove deletes the first occurrence of id, preserving the order of the rest.
// Returns false if id was not queued.
func (q *JobQueue) Remove(id JobID) bool {
	for i, v := range q.queue {
		if v == id {
			q.queue = append(q.queue[:i:i], q.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether id is queued.
func (q *JobQueue) Contains(id JobID) bool {
	for _, v := range q.queue {
		if v == id {
			return true
		}
	}
	return false
}

// Len returns the number of queued jobs.
func (q *JobQueue) Len() int {
	return len(q.queue)
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage; callers MUST NOT modify it.
func (q *JobQueue) Items() []JobID {
	return q.queue
}

// Snapshot returns a copy of the queue contents.
func (q *JobQueue) Snapshot() []JobID {
	out := make([]JobID, len(q.queue))
	copy(out, q.queue)
	return out
}

func (q *JobQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, id := range q.queue {
		sb.WriteString(fmt.Sprint(int(id)))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
