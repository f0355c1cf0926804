package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnit_StartRelease_Lifecycle(t *testing.T) {
	// GIVEN an idle unit
	u := NewUnit(0, 1)
	assert.Equal(t, UnitIdle, u.State())

	// WHEN a job of duration 3 starts at tick 5 with a guard of 1
	u.Start(2, 5, 3, 1)

	// THEN completion and idle transition are scheduled
	assert.Equal(t, UnitProcessing, u.State())
	assert.Equal(t, int64(8), u.Completion)
	assert.Equal(t, int64(9), u.IdleAt)
	assert.Panics(t, func() { u.Start(3, 6, 1, 1) }, "a busy unit rejects a second job")

	// WHEN the job is released
	job := u.Release()

	// THEN the unit is idle again
	assert.Equal(t, JobID(2), job)
	assert.True(t, u.IsIdle())
	assert.Equal(t, int64(-1), u.Completion)
	assert.Equal(t, int64(-1), u.IdleAt)
}

func TestResource_Reset_SharesPendingPoolAtFirstUnitOnly(t *testing.T) {
	// GIVEN two resources of three units and one pending pool
	pending := NewJobQueue(0, 1)
	a, b := NewResource(0, 3), NewResource(1, 3)
	a.Units[2].Waiting.Push(1)
	a.LastAction = JobAction(1)
	a.Realized = append(a.Realized, Dispatch{Job: 1})

	// WHEN both are reset
	a.Reset(pending, 0b11)
	b.Reset(pending, 0b11)

	// THEN first units share the pool and later units have private empty queues
	assert.Same(t, pending, a.First().Waiting)
	assert.Same(t, pending, b.First().Waiting)
	assert.NotSame(t, a.Units[1].Waiting, b.Units[1].Waiting)
	assert.Zero(t, a.Units[2].Waiting.Len())
	assert.Equal(t, NoAction, a.LastAction)
	assert.Equal(t, NoJob, a.LastJob)
	assert.Nil(t, a.Realized)
	assert.Equal(t, StateKey(0b11), a.State)
	assert.True(t, a.IsLast(2))
	assert.False(t, a.IsLast(1))
}

func TestAction_Helpers(t *testing.T) {
	assert.True(t, JobAction(0).IsJob())
	assert.False(t, NoOp.IsJob())
	assert.Equal(t, JobID(4), JobAction(4).Job())
	assert.Equal(t, NoJob, NoAction.Job())
	assert.Equal(t, "job_4", JobAction(4).String())
	assert.Equal(t, "no-op", NoOp.String())
	assert.Equal(t, "none", NoAction.String())
}

func TestJob_Released(t *testing.T) {
	j := &Job{ID: 0, ReleaseDate: 3, Done: true}
	assert.False(t, j.Released(2))
	assert.True(t, j.Released(3))
	assert.False(t, j.Reset().Done)
}
