package sim

import "sort"

// FeatureTables are static heuristic hints derived from an instance's duration
// table. Policies read them as input features; the Simulator only passes them
// through.
type FeatureTables struct {
	JobWork       [][]int64 // [job][resource] total work over the resource's units
	BestResource  []int     // per job, resource with the least total work (lowest index on ties)
	Order         [][]JobID // per resource, jobs by ascending total work (id on ties)
	Rank          [][]int   // [resource][job] position of job in Order[resource]
	DueDates      []int64
	ReleaseDates  []int64
	MaxWork       int64 // largest JobWork entry, at least 1
	HorizonHint   int64 // serial upper bound on the makespan, at least 1
	Jobs          int
	Resources     int
	UnitsPerStage int
}

// JobResourceDurations returns the total work of every job on every resource.
func JobResourceDurations(inst *Instance) [][]int64 {
	out := make([][]int64, inst.Jobs)
	for j := range out {
		out[j] = make([]int64, inst.Resources)
		for i := 0; i < inst.Resources; i++ {
			out[j][i] = inst.TotalWork(JobID(j), i)
		}
	}
	return out
}

// BestResources returns, per job, the resource with the least total work.
func BestResources(work [][]int64) []int {
	out := make([]int, len(work))
	for j, row := range work {
		best := 0
		for i := 1; i < len(row); i++ {
			if row[i] < row[best] {
				best = i
			}
		}
		out[j] = best
	}
	return out
}

// HeuristicOrder returns, per resource, the shortest-processing-time order of
// all jobs. Ties are broken by job id.
func HeuristicOrder(work [][]int64, resources int) [][]JobID {
	out := make([][]JobID, resources)
	for i := range out {
		order := make([]JobID, len(work))
		for j := range order {
			order[j] = JobID(j)
		}
		sort.SliceStable(order, func(a, b int) bool {
			wa, wb := work[order[a]][i], work[order[b]][i]
			if wa != wb {
				return wa < wb
			}
			return order[a] < order[b]
		})
		out[i] = order
	}
	return out
}

// NewFeatureTables computes all heuristic tables for inst.
func NewFeatureTables(inst *Instance) *FeatureTables {
	work := JobResourceDurations(inst)
	order := HeuristicOrder(work, inst.Resources)
	rank := make([][]int, inst.Resources)
	for i, o := range order {
		rank[i] = make([]int, inst.Jobs)
		for pos, j := range o {
			rank[i][j] = pos
		}
	}
	ft := &FeatureTables{
		JobWork:       work,
		BestResource:  BestResources(work),
		Order:         order,
		Rank:          rank,
		DueDates:      append([]int64(nil), inst.DueDates...),
		ReleaseDates:  append([]int64(nil), inst.ReleaseDates...),
		MaxWork:       1,
		Jobs:          inst.Jobs,
		Resources:     inst.Resources,
		UnitsPerStage: inst.Units,
	}
	ft.HorizonHint = serialBound(inst, work)
	for _, row := range work {
		for _, w := range row {
			ft.MaxWork = max(ft.MaxWork, w)
		}
	}
	return ft
}

// serialBound is the makespan of running every job alone, one after another,
// on its worst resource, including one changeover per unit visit.
func serialBound(inst *Instance, work [][]int64) int64 {
	var bound int64
	for j, row := range work {
		worst := int64(0)
		for _, w := range row {
			worst = max(worst, w)
		}
		bound = max(bound, inst.ReleaseDates[j])
		bound += worst + int64(inst.Units)
	}
	return max(bound, 1)
}
