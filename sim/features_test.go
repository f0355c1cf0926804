package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFeatureTables_SmallInstance(t *testing.T) {
	// GIVEN the small_3x2 instance
	inst := loadTestInstance(t, "small_3x2")

	// WHEN the feature tables are derived
	ft := NewFeatureTables(inst)

	// THEN per-resource work sums the unit durations
	assert.Equal(t, []int64{5, 7, 6}, ft.JobWork[0])
	assert.Equal(t, []int64{6, 6, 5}, ft.JobWork[1])
	assert.Equal(t, []int{0, 2, 1, 1, 0, 0}, ft.BestResource)

	// AND the SPT order on resource 0 breaks ties by id
	// resource 0 work: j0=5 j1=6 j2=5 j3=6 j4=5 j5=5
	assert.Equal(t, []JobID{0, 2, 4, 5, 1, 3}, ft.Order[0])
	assert.Equal(t, 4, ft.Rank[0][1])
	assert.Equal(t, int64(8), ft.MaxWork)
	assert.Positive(t, ft.HorizonHint)
	assert.Equal(t, 2, ft.UnitsPerStage)
}

func TestBestResources_TiesGoToLowestIndex(t *testing.T) {
	assert.Equal(t, []int{0, 1}, BestResources([][]int64{{3, 3}, {4, 2}}))
}

func TestNewFeatureTables_HorizonHintCoversSerialRun(t *testing.T) {
	// GIVEN the two-job instance: 3 + 4 ticks of work plus one changeover each
	ft := NewFeatureTables(loadTestInstance(t, "two_jobs"))

	// THEN the hint bounds both the guard-0 and guard-1 makespans
	assert.Equal(t, int64(3+1+4+1), ft.HorizonHint)
	assert.GreaterOrEqual(t, ft.HorizonHint, int64(8))
}
