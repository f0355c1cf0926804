package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/baseline"
)

var baselineMaxJobs int

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Find the best fixed dispatch order by exhaustive search",
	Long:  "Evaluate every job permutation with a fixed-order policy and report the best schedule. Refuses instances larger than --max-jobs.",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		inst, err := resolveInstance(rng)
		if err != nil {
			logrus.Fatalf("Failed to prepare instance: %v", err)
		}

		search := &baseline.Exhaustive{MaxJobs: baselineMaxJobs, ChangeoverGuard: changeoverGuard}
		res, err := search.Solve(inst, rewardWeights())
		if err != nil {
			logrus.Fatalf("Baseline failed: %v", err)
		}
		printBaseline(os.Stdout, res)
	},
}

func init() {
	addInstanceFlags(baselineCmd)
	addRewardFlags(baselineCmd)
	baselineCmd.Flags().IntVar(&baselineMaxJobs, "max-jobs", baseline.DefaultMaxJobs, "Largest instance to search")

	rootCmd.AddCommand(baselineCmd)
}
