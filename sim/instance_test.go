package sim

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowshop-sim/flowshop-sim/sim/internal/testutil"
)

func TestLoadInstance_Fixture(t *testing.T) {
	// GIVEN the small_3x2 fixture
	// WHEN it is loaded
	inst := loadTestInstance(t, "small_3x2")

	// THEN the shape and a sample duration match the file
	assert.Equal(t, 6, inst.Jobs)
	assert.Equal(t, 3, inst.Resources)
	assert.Equal(t, 2, inst.Units)
	d, err := inst.Duration(4, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d)
	assert.Equal(t, int64(3+2), inst.TotalWork(0, 0))
}

func TestLoadInstance_UnknownField_Rejected(t *testing.T) {
	// GIVEN a file with a misspelled key
	path := testutil.WriteTemp(t, "bad.yaml", `
jobs: 1
resources: 1
units: 1
release_dates: [0]
due_dates: [3]
duration: [[[1]]]
`)

	// WHEN it is loaded
	_, err := LoadInstance(path)

	// THEN strict decoding reports the field
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration")
}

func TestLoadInstance_MissingFile(t *testing.T) {
	_, err := LoadInstance(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestInstance_Validate_RejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Instance)
		wantDur bool
	}{
		{"no jobs", func(i *Instance) { i.Jobs = 0 }, false},
		{"too many jobs", func(i *Instance) { i.Jobs = MaxJobs + 1 }, false},
		{"no resources", func(i *Instance) { i.Resources = 0 }, false},
		{"no units", func(i *Instance) { i.Units = 0 }, false},
		{"short release dates", func(i *Instance) { i.ReleaseDates = i.ReleaseDates[:1] }, false},
		{"negative due date", func(i *Instance) { i.DueDates[1] = -1 }, false},
		{"missing job row", func(i *Instance) { i.Durations = i.Durations[:1] }, true},
		{"jagged unit row", func(i *Instance) { i.Durations[1] = i.Durations[1][:1] }, true},
		{"jagged resource row", func(i *Instance) { i.Durations[0][1] = []int64{2} }, true},
		{"zero duration", func(i *Instance) { i.Durations[0][0][0] = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := uniformInstance(2, 2, 2, 3)
			tt.mutate(inst)
			err := inst.Validate()
			require.Error(t, err)
			if tt.wantDur {
				assert.ErrorIs(t, err, ErrInconsistentDuration)
			}
		})
	}
	assert.NoError(t, uniformInstance(2, 2, 2, 3).Validate())
}

func TestInstance_SaveLoad_RoundTrip(t *testing.T) {
	// GIVEN a generated instance
	inst, err := GenerateInstance(DefaultGeneratorConfig(5, 2, 3), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "inst.yaml")

	// WHEN it is saved and reloaded
	require.NoError(t, inst.Save(path))
	got, err := LoadInstance(path)

	// THEN the tables are preserved
	require.NoError(t, err)
	assert.Equal(t, inst, got)
}

func TestGenerateInstance_RespectsBounds(t *testing.T) {
	// GIVEN generator bounds with late releases
	cfg := DefaultGeneratorConfig(8, 3, 2)
	cfg.MinDuration, cfg.MaxDuration, cfg.MaxRelease = 2, 6, 15

	// WHEN an instance is drawn
	inst, err := GenerateInstance(cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	// THEN every entry lies within the bounds and due dates leave room for the work
	for j := 0; j < inst.Jobs; j++ {
		assert.GreaterOrEqual(t, inst.ReleaseDates[j], int64(0))
		assert.LessOrEqual(t, inst.ReleaseDates[j], int64(15))
		for q := 0; q < inst.Units; q++ {
			for i := 0; i < inst.Resources; i++ {
				d := inst.Durations[j][q][i]
				assert.True(t, d >= 2 && d <= 6, "duration %d out of [2,6]", d)
			}
		}
		minWork := inst.TotalWork(JobID(j), 0)
		for i := 1; i < inst.Resources; i++ {
			minWork = min(minWork, inst.TotalWork(JobID(j), i))
		}
		assert.GreaterOrEqual(t, inst.DueDates[j], inst.ReleaseDates[j]+minWork)
	}
}

func TestGenerateInstance_SameSeed_SameInstance(t *testing.T) {
	cfg := DefaultGeneratorConfig(6, 2, 2)
	a, err := GenerateInstance(cfg, NewPartitionedRNG(NewSimulationKey(9)).ForSubsystem(SubsystemInstance))
	require.NoError(t, err)
	b, err := GenerateInstance(cfg, NewPartitionedRNG(NewSimulationKey(9)).ForSubsystem(SubsystemInstance))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateInstance_InvalidConfig(t *testing.T) {
	assert.Panics(t, func() { _, _ = GenerateInstance(DefaultGeneratorConfig(2, 1, 1), nil) })

	bad := DefaultGeneratorConfig(2, 1, 1)
	bad.MinDuration = 0
	assert.Panics(t, func() { _, _ = GenerateInstance(bad, rand.New(rand.NewSource(1))) })

	_, err := GenerateInstance(DefaultGeneratorConfig(MaxJobs+1, 1, 1), rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
