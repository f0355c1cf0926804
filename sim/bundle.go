package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunBundle holds a complete run configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and leave CLI defaults alone.
// String fields use empty string for "not set".
type RunBundle struct {
	Instance string         `yaml:"instance"`
	Policy   PolicyConfig   `yaml:"policy"`
	Engine   EngineBundle   `yaml:"engine"`
	Training TrainingConfig `yaml:"training"`
	Reward   RewardConfig   `yaml:"reward"`
}

// PolicyConfig selects and parameterises the dispatching policy.
type PolicyConfig struct {
	Name         string   `yaml:"name"`
	Rule         string   `yaml:"rule"`
	LearningRate *float64 `yaml:"learning_rate"`
	WeightsIn    string   `yaml:"weights_in"`
	WeightsOut   string   `yaml:"weights_out"`
}

// EngineBundle holds engine overrides.
type EngineBundle struct {
	Exploration     *float64 `yaml:"exploration"`
	ChangeoverGuard *int64   `yaml:"changeover_guard"`
	TimestepCost    *float64 `yaml:"timestep_cost"`
	MaxSteps        *int64   `yaml:"max_steps"`
}

// TrainingConfig holds training loop overrides.
type TrainingConfig struct {
	Epochs *int     `yaml:"epochs"`
	Phase  string   `yaml:"phase"`
	Gamma  *float64 `yaml:"gamma"`
}

// RewardConfig holds reward weight overrides.
type RewardConfig struct {
	Cmax  *float64 `yaml:"cmax"`
	Tsum  *float64 `yaml:"tsum"`
	Tmax  *float64 `yaml:"tmax"`
	Tmean *float64 `yaml:"tmean"`
	Tn    *float64 `yaml:"tn"`
}

// Apply overrides the set fields of w.
func (rc RewardConfig) Apply(w RewardWeights) RewardWeights {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&w.Cmax, rc.Cmax)
	set(&w.Tsum, rc.Tsum)
	set(&w.Tmax, rc.Tmax)
	set(&w.Tmean, rc.Tmean)
	set(&w.Tn, rc.Tn)
	return w
}

// LoadRunBundle reads and parses a YAML run configuration file.
// Unknown fields are rejected.
func LoadRunBundle(path string) (*RunBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var bundle RunBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &bundle, nil
}

// ValidPolicies is the set of recognized policy names.
// Shared by Validate() and policy.NewPolicy() to avoid duplication.
var ValidPolicies = map[string]bool{"": true, "tabular": true, "rule": true, "approx": true}

// ValidRules is the set of recognized dispatching rule names.
var ValidRules = map[string]bool{"": true, "spt": true, "edd": true, "order": true}

// ValidPhases is the set of recognized training phases.
var ValidPhases = map[string]bool{"": true, "train": true, "evaluate": true}

// IsValidPolicy reports whether name is a recognized policy name.
func IsValidPolicy(name string) bool { return ValidPolicies[name] }

// IsValidRule reports whether name is a recognized dispatching rule.
func IsValidRule(name string) bool { return ValidRules[name] }

// IsValidPhase reports whether name is a recognized training phase.
func IsValidPhase(name string) bool { return ValidPhases[name] }

// Validate checks that all names and parameter ranges in the bundle are valid.
func (b *RunBundle) Validate() error {
	if !IsValidPolicy(b.Policy.Name) {
		return fmt.Errorf("unknown policy %q", b.Policy.Name)
	}
	if !IsValidRule(b.Policy.Rule) {
		return fmt.Errorf("unknown rule %q", b.Policy.Rule)
	}
	if !IsValidPhase(b.Training.Phase) {
		return fmt.Errorf("unknown phase %q", b.Training.Phase)
	}
	if b.Policy.LearningRate != nil && *b.Policy.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %f", *b.Policy.LearningRate)
	}
	if e := b.Engine.Exploration; e != nil && (*e < 0 || *e > 1) {
		return fmt.Errorf("exploration must be in [0,1], got %f", *e)
	}
	if g := b.Engine.ChangeoverGuard; g != nil && *g < 0 {
		return fmt.Errorf("changeover_guard must be non-negative, got %d", *g)
	}
	if m := b.Engine.MaxSteps; m != nil && *m < 0 {
		return fmt.Errorf("max_steps must be non-negative, got %d", *m)
	}
	if e := b.Training.Epochs; e != nil && *e < 1 {
		return fmt.Errorf("epochs must be at least 1, got %d", *e)
	}
	if g := b.Training.Gamma; g != nil && (*g <= 0 || *g > 1) {
		return fmt.Errorf("gamma must be in (0,1], got %f", *g)
	}
	return nil
}
