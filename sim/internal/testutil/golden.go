// Package testutil provides shared test infrastructure for the flowshop simulator.
// It resolves fixture paths under the repository's testdata directory and
// holds assertion helpers used across sim/ and its sub-packages.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixturePath returns the absolute path of testdata/<rel>.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func FixturePath(t *testing.T, rel string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", rel)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Fixture %s not found: %v", rel, err)
	}
	return path
}

// InstancePath returns the path of testdata/instances/<name>.yaml.
func InstancePath(t *testing.T, name string) string {
	t.Helper()
	return FixturePath(t, filepath.Join("instances", name+".yaml"))
}

// WriteTemp writes content to a file in a per-test temporary directory.
func WriteTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
