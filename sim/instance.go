package sim

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Instance is the static problem description of a flexible flow shop.
// Durations is indexed [job][unit][resource].
type Instance struct {
	Jobs         int         `yaml:"jobs"`      // N
	Resources    int         `yaml:"resources"` // LV
	Units        int         `yaml:"units"`     // GV, units per resource
	ReleaseDates []int64     `yaml:"release_dates"`
	DueDates     []int64     `yaml:"due_dates"`
	Durations    [][][]int64 `yaml:"durations"`
}

// Validate checks the instance shape. Every duration must be at least one
// tick: completions are resolved at the start of a later step, so a zero
// duration would never complete.
func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("instance is nil")
	}
	if inst.Jobs <= 0 || inst.Jobs > MaxJobs {
		return fmt.Errorf("jobs must be in [1,%d], got %d", MaxJobs, inst.Jobs)
	}
	if inst.Resources <= 0 {
		return fmt.Errorf("resources must be > 0, got %d", inst.Resources)
	}
	if inst.Units <= 0 {
		return fmt.Errorf("units must be > 0, got %d", inst.Units)
	}
	if len(inst.ReleaseDates) != inst.Jobs {
		return fmt.Errorf("release_dates must have %d entries, got %d", inst.Jobs, len(inst.ReleaseDates))
	}
	if len(inst.DueDates) != inst.Jobs {
		return fmt.Errorf("due_dates must have %d entries, got %d", inst.Jobs, len(inst.DueDates))
	}
	for j := 0; j < inst.Jobs; j++ {
		if inst.ReleaseDates[j] < 0 {
			return fmt.Errorf("release_dates[%d] must be non-negative, got %d", j, inst.ReleaseDates[j])
		}
		if inst.DueDates[j] < 0 {
			return fmt.Errorf("due_dates[%d] must be non-negative, got %d", j, inst.DueDates[j])
		}
	}
	if len(inst.Durations) != inst.Jobs {
		return fmt.Errorf("durations must have %d job rows, got %d: %w", inst.Jobs, len(inst.Durations), ErrInconsistentDuration)
	}
	for j := 0; j < inst.Jobs; j++ {
		for q := 0; q < inst.Units; q++ {
			for i := 0; i < inst.Resources; i++ {
				if _, err := inst.Duration(JobID(j), q, i); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Duration returns the processing time of job at unit q of resource i.
// Fails with ErrInconsistentDuration when the entry is missing or below one tick.
func (inst *Instance) Duration(job JobID, q, i int) (int64, error) {
	j := int(job)
	if j < 0 || j >= len(inst.Durations) || q < 0 || q >= len(inst.Durations[j]) || i < 0 || i >= len(inst.Durations[j][q]) {
		return 0, fmt.Errorf("no duration for job %d, unit %d, resource %d: %w", j, q, i, ErrInconsistentDuration)
	}
	d := inst.Durations[j][q][i]
	if d < 1 {
		return 0, fmt.Errorf("duration for job %d, unit %d, resource %d is %d, want >= 1: %w", j, q, i, d, ErrInconsistentDuration)
	}
	return d, nil
}

// TotalWork returns the sum of a job's durations over the units of resource i.
// Missing entries count as zero; Validate rejects such instances.
func (inst *Instance) TotalWork(job JobID, i int) int64 {
	var total int64
	for q := 0; q < inst.Units; q++ {
		if d, err := inst.Duration(job, q, i); err == nil {
			total += d
		}
	}
	return total
}

// LoadInstance reads and validates a YAML instance file.
// Unknown fields are rejected so that typos surface as errors.
func LoadInstance(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instance: %w", err)
	}
	var inst Instance
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&inst); err != nil {
		return nil, fmt.Errorf("parsing instance: %w", err)
	}
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instance %s: %w", path, err)
	}
	return &inst, nil
}

// Save writes the instance as YAML.
func (inst *Instance) Save(path string) error {
	data, err := yaml.Marshal(inst)
	if err != nil {
		return fmt.Errorf("encoding instance: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing instance: %w", err)
	}
	return nil
}

// GeneratorConfig parameterises random instance generation.
type GeneratorConfig struct {
	Jobs        int
	Resources   int
	Units       int
	MinDuration int64   // inclusive, >= 1
	MaxDuration int64   // inclusive, >= MinDuration
	MaxRelease  int64   // release dates are drawn from [0, MaxRelease]; 0 releases every job at tick 0
	DueSlack    float64 // due date = release + own work + U[0, DueSlack * mean work * N / LV]
}

// DefaultGeneratorConfig returns the generator settings used by the CLI.
func DefaultGeneratorConfig(jobs, resources, units int) GeneratorConfig {
	return GeneratorConfig{
		Jobs:        jobs,
		Resources:   resources,
		Units:       units,
		MinDuration: 1,
		MaxDuration: 10,
		DueSlack:    1.0,
	}
}

// GenerateInstance draws a random valid instance.
// Panics on a nil rng or invalid bounds; returns an error if the result does not validate.
func GenerateInstance(cfg GeneratorConfig, rng *rand.Rand) (*Instance, error) {
	if rng == nil {
		panic("GenerateInstance: rng must not be nil")
	}
	if cfg.MinDuration < 1 || cfg.MaxDuration < cfg.MinDuration {
		panic(fmt.Sprintf("GenerateInstance: invalid duration bounds [%d,%d]", cfg.MinDuration, cfg.MaxDuration))
	}
	inst := &Instance{
		Jobs:         cfg.Jobs,
		Resources:    cfg.Resources,
		Units:        cfg.Units,
		ReleaseDates: make([]int64, cfg.Jobs),
		DueDates:     make([]int64, cfg.Jobs),
		Durations:    make([][][]int64, cfg.Jobs),
	}
	span := cfg.MaxDuration - cfg.MinDuration + 1
	var totalWork int64
	for j := 0; j < cfg.Jobs; j++ {
		inst.Durations[j] = make([][]int64, cfg.Units)
		for q := 0; q < cfg.Units; q++ {
			inst.Durations[j][q] = make([]int64, cfg.Resources)
			for i := 0; i < cfg.Resources; i++ {
				d := cfg.MinDuration + rng.Int63n(span)
				inst.Durations[j][q][i] = d
				totalWork += d
			}
		}
		if cfg.MaxRelease > 0 {
			inst.ReleaseDates[j] = rng.Int63n(cfg.MaxRelease + 1)
		}
	}
	if cfg.Jobs > 0 && cfg.Resources > 0 {
		meanWork := float64(totalWork) / float64(cfg.Jobs*cfg.Resources)
		window := int64(cfg.DueSlack * meanWork * float64(cfg.Jobs) / float64(cfg.Resources))
		for j := 0; j < cfg.Jobs; j++ {
			own := inst.TotalWork(JobID(j), 0)
			for i := 1; i < cfg.Resources; i++ {
				own = min(own, inst.TotalWork(JobID(j), i))
			}
			due := inst.ReleaseDates[j] + own
			if window > 0 {
				due += rng.Int63n(window + 1)
			}
			inst.DueDates[j] = due
		}
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
