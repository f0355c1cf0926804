package policy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameter file kinds.
const (
	KindTabular = "tabular"
	KindApprox  = "approx"
)

// ParameterFile is the persisted form of a trained policy.
type ParameterFile struct {
	Kind    string       `yaml:"kind"`
	Weights []float64    `yaml:"weights,omitempty"`
	Table   []TableEntry `yaml:"table,omitempty"`
}

// TableEntry is one value of a tabular policy.
type TableEntry struct {
	Resource int     `yaml:"resource"`
	State    uint64  `yaml:"state"`
	Action   int     `yaml:"action"`
	Value    float64 `yaml:"value"`
}

// Persistable is implemented by policies with learned parameters.
type Persistable interface {
	Parameters() ParameterFile
	SetParameters(ParameterFile) error
}

// SaveParameters writes p's parameters to path as YAML.
func SaveParameters(path string, p Persistable) error {
	data, err := yaml.Marshal(p.Parameters())
	if err != nil {
		return fmt.Errorf("encoding parameters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing parameters: %w", err)
	}
	return nil
}

// LoadParameters reads a parameter file into p. Unknown fields are rejected.
func LoadParameters(path string, p Persistable) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading parameters: %w", err)
	}
	var pf ParameterFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil {
		return fmt.Errorf("parsing parameters: %w", err)
	}
	if err := p.SetParameters(pf); err != nil {
		return fmt.Errorf("loading parameters from %s: %w", path, err)
	}
	return nil
}
