package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/motorbench/internal/canonical"
)

// GoldenSuffix is the file extension of golden snapshots.
const GoldenSuffix = ".golden"

// Snapshot is the golden form of a case result.
type Snapshot struct {
	Name       string
	Scenario   string
	Outcome    Outcome
	Invocation []string
}

// SnapshotOf builds the snapshot of result for case c.
func SnapshotOf(c *Case, result *Result) Snapshot {
	return Snapshot{
		Name:       c.Name,
		Scenario:   c.Scenario,
		Outcome:    result.Outcome,
		Invocation: result.Invocation,
	}
}

// Marshal renders the snapshot as canonical JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	invocation := s.Invocation
	if invocation == nil {
		invocation = []string{}
	}
	return canonical.Marshal(map[string]any{
		"name":       s.Name,
		"scenario":   s.Scenario,
		"outcome":    string(s.Outcome),
		"invocation": invocation,
	})
}

// GoldenPath returns the golden file for the named case in dir.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, name+GoldenSuffix)
}

// WriteGolden stores the snapshot of result as the golden file of c.
func WriteGolden(dir string, c *Case, result *Result) error {
	data, err := SnapshotOf(c, result).Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(GoldenPath(dir, c.Name), data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether result matches the golden file of c.
// found is false when c has no golden file in dir.
func CompareGolden(dir string, c *Case, result *Result) (match, found bool, err error) {
	want, err := os.ReadFile(GoldenPath(dir, c.Name))
	if errors.Is(err, os.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read golden file: %w", err)
	}

	got, err := SnapshotOf(c, result).Marshal()
	if err != nil {
		return false, true, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return bytes.Equal(want, got), true, nil
}

// RunWithGolden runs c and compares its rendered invocation against
// testdata/golden/{c.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, c *Case) (*Result, error) {
	t.Helper()

	result, err := Run(c)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, c, result)
}

// AssertGolden compares an existing result against the case's golden file.
func AssertGolden(t *testing.T, c *Case, result *Result) error {
	t.Helper()

	data, err := SnapshotOf(c, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, c.Name, data)
	return nil
}
