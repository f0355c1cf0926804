package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSpace_Key_IsCanonicalAcrossOrder(t *testing.T) {
	// GIVEN a state space of four jobs
	ss := NewStateSpace(4)

	// WHEN the same set is encoded in two orders
	a, errA := ss.Key([]JobID{3, 0, 2})
	b, errB := ss.Key([]JobID{0, 2, 3})

	// THEN the keys agree and decode back to the set
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
	assert.Equal(t, StateKey(0b1101), a)
	assert.Equal(t, []JobID{0, 2, 3}, a.Jobs())
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Has(2))
	assert.False(t, a.Has(1))
	assert.True(t, ss.Contains(a))
}

func TestStateSpace_Key_EmptySetIsZero(t *testing.T) {
	key, err := NewStateSpace(3).Key(nil)
	require.NoError(t, err)
	assert.Equal(t, StateKey(0), key)
	assert.Empty(t, key.Jobs())
}

func TestStateSpace_Key_InvalidInput_ReturnsInvalidStateLookup(t *testing.T) {
	ss := NewStateSpace(3)
	tests := []struct {
		name string
		jobs []JobID
	}{
		{"duplicate", []JobID{1, 1}},
		{"out of range", []JobID{3}},
		{"negative", []JobID{NoJob}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ss.Key(tt.jobs)
			assert.ErrorIs(t, err, ErrInvalidStateLookup)
		})
	}
}

func TestStateSpace_Size(t *testing.T) {
	assert.Equal(t, uint64(1), NewStateSpace(0).Size())
	assert.Equal(t, uint64(8), NewStateSpace(3).Size())
	assert.Equal(t, uint64(1)<<MaxJobs, NewStateSpace(MaxJobs).Size())
	assert.False(t, NewStateSpace(3).Contains(8))
	assert.Panics(t, func() { NewStateSpace(MaxJobs + 1) })
	assert.Panics(t, func() { NewStateSpace(-1) })
}
