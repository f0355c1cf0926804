package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flowshop-sim/flowshop-sim/sim"
	"github.com/flowshop-sim/flowshop-sim/sim/policy"
	"github.com/flowshop-sim/flowshop-sim/sim/trace"
	"github.com/flowshop-sim/flowshop-sim/sim/training"
)

var (
	// Instance selection, shared by run and baseline
	seed         int64  // Master seed for instance generation, exploration and policy initialisation
	logLevel     string // Log verbosity level
	instancePath string // Instance YAML; empty generates a random instance
	numJobs      int    // Jobs in a generated instance
	numResources int    // Resources (lines) in a generated instance
	numUnits     int    // Units per resource in a generated instance

	// Engine
	exploration     float64 // Epsilon-greedy exploration probability
	changeoverGuard int64   // Ticks between a unit's completion and its next start
	timestepCost    float64 // Per-step reward penalty per resource
	maxSteps        int64   // Step bound per episode; 0 derives one from the instance

	// Policy and training
	configPath   string  // Optional YAML run bundle
	policyName   string  // Dispatching policy
	ruleName     string  // Rule for --policy rule
	learningRate float64 // Step size for --policy approx
	weightsIn    string  // Parameter file to start from
	weightsOut   string  // Parameter file to write after training
	epochs       int     // Number of episodes
	phase        string  // train or evaluate
	gamma        float64 // Tabular reinforcement step size
	resultsPath  string  // YAML file for the run report

	// Trace analysis
	counterfactualK int // Candidates ranked per traced dispatch decision

	// Reward weights
	rewardCmax  float64
	rewardTsum  float64
	rewardTmax  float64
	rewardTmean float64
	rewardTn    float64
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "flowshop-sim",
	Short: "Discrete-event simulator for training flow-shop dispatching policies",
}

// runCmd trains or evaluates a dispatching policy over a number of episodes
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train or evaluate a dispatching policy on an instance",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if configPath != "" {
			bundle, err := sim.LoadRunBundle(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load run config: %v", err)
			}
			if err := bundle.Validate(); err != nil {
				logrus.Fatalf("Invalid run config: %v", err)
			}
			applyBundle(cmd, bundle)
		}

		if !sim.IsValidPolicy(policyName) {
			logrus.Fatalf("Unknown policy %q. Valid: tabular, rule, approx", policyName)
		}
		if !sim.IsValidRule(ruleName) {
			logrus.Fatalf("Unknown rule %q. Valid: spt, edd, order", ruleName)
		}
		if !sim.IsValidPhase(phase) {
			logrus.Fatalf("Unknown phase %q. Valid: train, evaluate", phase)
		}
		if epochs < 1 {
			logrus.Fatalf("--epochs must be at least 1, got %d", epochs)
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		inst, err := resolveInstance(rng)
		if err != nil {
			logrus.Fatalf("Failed to prepare instance: %v", err)
		}

		p := policy.NewPolicy(policyName, policy.Options{
			Rule:         ruleName,
			LearningRate: learningRate,
			RNG:          rng.ForSubsystem(sim.SubsystemPolicy),
		})
		if weightsIn != "" {
			persistable, ok := p.(policy.Persistable)
			if !ok {
				logrus.Fatalf("Policy %q has no parameters to load", policyName)
			}
			if err := policy.LoadParameters(weightsIn, persistable); err != nil {
				logrus.Fatalf("Failed to load parameters: %v", err)
			}
		}

		engineCfg := sim.NewEngineConfig(exploration, changeoverGuard, timestepCost, maxSteps, seed)
		s, err := sim.NewSimulator(inst, p, engineCfg, trace.TraceConfig{
			Level:           trace.TraceLevelDecisions,
			CounterfactualK: counterfactualK,
		})
		if err != nil {
			logrus.Fatalf("Failed to build simulator: %v", err)
		}

		logrus.Infof("Starting %s of policy %q: %d jobs, %d resources x %d units, %d epochs, exploration=%.2f",
			phaseOrDefault(), policyName, inst.Jobs, inst.Resources, inst.Units, epochs, exploration)

		weights := rewardWeights()
		res, err := training.NewTrainer(s, training.Config{
			Epochs:  epochs,
			Phase:   phase,
			Gamma:   gamma,
			Weights: weights,
		}).Run()
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}

		summary := trace.Summarize(s.Trace)
		logrus.Infof("Last episode: %d decisions, %d explored, %d no-ops", summary.TotalDecisions, summary.ExploredCount, summary.NoOpCount)
		if counterfactualK > 0 {
			logrus.Infof("Dispatch regret: mean %.3f, max %.3f", summary.MeanRegret, summary.MaxRegret)
		}

		printResult(os.Stdout, res)

		if weightsOut != "" {
			persistable, ok := p.(policy.Persistable)
			if !ok {
				logrus.Fatalf("Policy %q has no parameters to save", policyName)
			}
			if err := policy.SaveParameters(weightsOut, persistable); err != nil {
				logrus.Fatalf("Failed to save parameters: %v", err)
			}
			logrus.Infof("Parameters written to %s", weightsOut)
		}
		if resultsPath != "" {
			report := newRunReport(res, weights)
			if err := report.Save(resultsPath); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
		}

		logrus.Info("Run complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func phaseOrDefault() string {
	if phase == "" {
		return training.PhaseTrain
	}
	return phase
}

// resolveInstance loads --instance or draws a random instance from the
// instance RNG subsystem.
func resolveInstance(rng *sim.PartitionedRNG) (*sim.Instance, error) {
	if instancePath != "" {
		return sim.LoadInstance(instancePath)
	}
	if numJobs < 1 || numResources < 1 || numUnits < 1 {
		return nil, fmt.Errorf("--jobs, --resources and --units must be positive, got %d, %d, %d", numJobs, numResources, numUnits)
	}
	return sim.GenerateInstance(sim.DefaultGeneratorConfig(numJobs, numResources, numUnits), rng.ForSubsystem(sim.SubsystemInstance))
}

func rewardWeights() sim.RewardWeights {
	return sim.RewardWeights{Cmax: rewardCmax, Tsum: rewardTsum, Tmax: rewardTmax, Tmean: rewardTmean, Tn: rewardTn}
}

// applyBundle copies the bundle's set fields into the flag variables. Flags
// given explicitly on the command line take precedence.
func applyBundle(cmd *cobra.Command, b *sim.RunBundle) {
	changed := cmd.Flags().Changed
	setString := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setFloat := func(flag string, dst *float64, v *float64) {
		if v != nil && !changed(flag) {
			*dst = *v
		}
	}
	setInt64 := func(flag string, dst *int64, v *int64) {
		if v != nil && !changed(flag) {
			*dst = *v
		}
	}

	setString("instance", &instancePath, b.Instance)
	setString("policy", &policyName, b.Policy.Name)
	setString("rule", &ruleName, b.Policy.Rule)
	setFloat("learning-rate", &learningRate, b.Policy.LearningRate)
	setString("weights-in", &weightsIn, b.Policy.WeightsIn)
	setString("weights-out", &weightsOut, b.Policy.WeightsOut)

	setFloat("epsilon", &exploration, b.Engine.Exploration)
	setInt64("changeover", &changeoverGuard, b.Engine.ChangeoverGuard)
	setFloat("timestep-cost", &timestepCost, b.Engine.TimestepCost)
	setInt64("max-steps", &maxSteps, b.Engine.MaxSteps)

	if b.Training.Epochs != nil && !changed("epochs") {
		epochs = *b.Training.Epochs
	}
	setString("phase", &phase, b.Training.Phase)
	setFloat("gamma", &gamma, b.Training.Gamma)

	setFloat("w-cmax", &rewardCmax, b.Reward.Cmax)
	setFloat("w-tsum", &rewardTsum, b.Reward.Tsum)
	setFloat("w-tmax", &rewardTmax, b.Reward.Tmax)
	setFloat("w-tmean", &rewardTmean, b.Reward.Tmean)
	setFloat("w-tn", &rewardTn, b.Reward.Tn)
}

// addInstanceFlags registers the flags that select or generate an instance.
func addInstanceFlags(c *cobra.Command) {
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for instance generation, exploration and policy initialisation")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().StringVar(&instancePath, "instance", "", "Path to an instance YAML file (empty generates a random instance)")
	c.Flags().IntVar(&numJobs, "jobs", 6, "Number of jobs in a generated instance")
	c.Flags().IntVar(&numResources, "resources", 2, "Number of resources in a generated instance")
	c.Flags().IntVar(&numUnits, "units", 2, "Number of units per resource in a generated instance")
	c.Flags().Int64Var(&changeoverGuard, "changeover", sim.DefaultChangeoverGuard, "Ticks a unit stays occupied after completing a job")
}

// addRewardFlags registers the reward weight flags.
func addRewardFlags(c *cobra.Command) {
	defaults := sim.DefaultRewardWeights()
	c.Flags().Float64Var(&rewardCmax, "w-cmax", defaults.Cmax, "Reward weight of the makespan")
	c.Flags().Float64Var(&rewardTsum, "w-tsum", defaults.Tsum, "Reward weight of the total tardiness")
	c.Flags().Float64Var(&rewardTmax, "w-tmax", defaults.Tmax, "Reward weight of the maximum tardiness")
	c.Flags().Float64Var(&rewardTmean, "w-tmean", defaults.Tmean, "Reward weight of the mean tardiness")
	c.Flags().Float64Var(&rewardTn, "w-tn", defaults.Tn, "Reward weight of the number of tardy jobs")
}

// registerRunFlags binds every run flag to its variable and default.
func registerRunFlags(c *cobra.Command) {
	addInstanceFlags(c)
	addRewardFlags(c)

	c.Flags().StringVar(&configPath, "config", "", "Path to a YAML run config (explicit flags take precedence)")
	c.Flags().Float64Var(&exploration, "epsilon", 0, "Epsilon-greedy exploration probability in [0,1]")
	c.Flags().Float64Var(&timestepCost, "timestep-cost", sim.DefaultTimestepCost, "Per-step reward penalty per resource")
	c.Flags().Int64Var(&maxSteps, "max-steps", 0, "Step bound per episode (0 derives one from the instance)")

	c.Flags().StringVar(&policyName, "policy", "tabular", "Dispatching policy (tabular, rule, approx)")
	c.Flags().StringVar(&ruleName, "rule", "spt", "Dispatching rule for --policy rule (spt, edd, order)")
	c.Flags().Float64Var(&learningRate, "learning-rate", policy.DefaultLearningRate, "Step size for --policy approx")
	c.Flags().StringVar(&weightsIn, "weights-in", "", "Parameter file to initialise the policy from")
	c.Flags().StringVar(&weightsOut, "weights-out", "", "Parameter file to write after the run")

	c.Flags().IntVar(&epochs, "epochs", 100, "Number of episodes")
	c.Flags().StringVar(&phase, "phase", training.PhaseTrain, "Training phase (train, evaluate)")
	c.Flags().Float64Var(&gamma, "gamma", training.DefaultGamma, "Tabular reinforcement step size")
	c.Flags().StringVar(&resultsPath, "results", "", "Write the run report to this YAML file")
	c.Flags().IntVar(&counterfactualK, "counterfactual-k", 0, "Rank this many candidates per dispatch decision and log the regret")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
