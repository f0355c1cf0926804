package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/baseline"
	"github.com/flowshop-sim/flowshop-sim/sim/training"
)

// RunReport is the YAML form of a run's best episode.
type RunReport struct {
	Objectives  sim.Objectives    `yaml:"objectives"`
	Weights     sim.RewardWeights `yaml:"weights"`
	Reward      float64           `yaml:"reward"`
	BestEpoch   int               `yaml:"best_epoch"`
	Epochs      int               `yaml:"epochs"`
	Assignments [][]int           `yaml:"assignments"` // per resource, jobs in dispatch order
	Start       []int64           `yaml:"start"`
	Completion  []int64           `yaml:"completion"`
	Rewards     []float64         `yaml:"rewards"`
	ElapsedMs   int64             `yaml:"elapsed_ms"`
}

func newRunReport(res *training.Result, w sim.RewardWeights) RunReport {
	assignments := make([][]int, len(res.Assignments))
	for i, jobs := range res.Assignments {
		assignments[i] = make([]int, len(jobs))
		for k, j := range jobs {
			assignments[i][k] = int(j)
		}
	}
	return RunReport{
		Objectives:  res.Objectives,
		Weights:     w,
		Reward:      res.Reward,
		BestEpoch:   res.BestEpoch,
		Epochs:      len(res.Rewards),
		Assignments: assignments,
		Start:       res.Start,
		Completion:  res.Completion,
		Rewards:     res.Rewards,
		ElapsedMs:   res.Elapsed.Milliseconds(),
	}
}

// Save writes the report as YAML.
func (r RunReport) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// printResult writes the best episode of a run in human-readable form.
func printResult(w io.Writer, res *training.Result) {
	res.Objectives.Print(w)
	fmt.Fprintf(w, "Reward          : %.2f\n", res.Reward)
	fmt.Fprintf(w, "Best Epoch      : %d of %d\n", res.BestEpoch, len(res.Rewards))
	fmt.Fprintf(w, "Wall Time       : %s\n", res.Elapsed)
	fmt.Fprintln(w, "=== Assignments ===")
	for i, jobs := range res.Assignments {
		fmt.Fprintf(w, "Resource %d: %s\n", i, formatJobs(jobs))
	}
}

// printBaseline writes the result of an exhaustive search.
func printBaseline(w io.Writer, res *baseline.Result) {
	res.Objectives.Print(w)
	fmt.Fprintf(w, "Reward          : %.2f\n", res.Reward)
	fmt.Fprintf(w, "Permutation     : %s\n", formatJobs(res.Permutation))
	fmt.Fprintf(w, "Evaluations     : %d\n", res.Evaluations)
	fmt.Fprintf(w, "Wall Time       : %s\n", res.Duration)
}

func formatJobs(jobs []sim.JobID) string {
	parts := make([]string, len(jobs))
	for k, j := range jobs {
		parts[k] = fmt.Sprint(int(j))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
