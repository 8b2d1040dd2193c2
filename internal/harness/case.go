package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/motorbench/internal/bench"
)

// Case is one bench case.
type Case struct {
	// Name uniquely identifies the case and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the case checks.
	Description string `yaml:"description"`

	// Scenario is the bench scenario name.
	Scenario string `yaml:"scenario"`

	// Params holds the raw parameter values.
	Params map[string]int64 `yaml:"params"`

	// Tool scripts the simulator reply. Nil means a clean exit.
	Tool *ToolReply `yaml:"tool,omitempty"`

	// Expect is what the case must produce.
	Expect Expectation `yaml:"expect"`
}

// ToolReply is the scripted simulator outcome.
type ToolReply struct {
	ExitCode int    `yaml:"exit_code"`
	Stdout   string `yaml:"stdout,omitempty"`
	Stderr   string `yaml:"stderr,omitempty"`
}

// Expectation lists the checks for a case. Empty fields are not checked.
type Expectation struct {
	// Defines are NAME=value strings in render order.
	Defines []string `yaml:"defines,omitempty"`

	// Output is the compiled artifact path.
	Output string `yaml:"output,omitempty"`

	// Error is the expected failure.
	Error *ErrorExpect `yaml:"error,omitempty"`
}

// ErrorExpect describes an expected failure.
type ErrorExpect struct {
	Kind  string `yaml:"kind"`
	Field string `yaml:"field,omitempty"`
	Range string `yaml:"range,omitempty"`

	// Stderr must appear verbatim in the captured stderr (tool_failure only).
	Stderr string `yaml:"stderr,omitempty"`
}

// Error kinds.
const (
	ErrorInvalidParameter = "invalid_parameter"
	ErrorDivideByZero     = "divide_by_zero"
	ErrorMissingParameter = "missing_parameter"
	ErrorToolFailure      = "tool_failure"
)

// LoadCase reads and parses a case YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	var c Case
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateCase(&c); err != nil {
		return nil, fmt.Errorf("invalid case %s: %w", path, err)
	}
	return &c, nil
}

// LoadCases loads every *.yaml case in dir, sorted by file name.
func LoadCases(dir string) ([]*Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	cases := make([]*Case, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		c, err := LoadCase(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("case name %q used by both %s and %s", c.Name, prev, p)
		}
		seen[c.Name] = p
		cases = append(cases, c)
	}
	return cases, nil
}

func validateCase(c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := bench.ParseScenario(c.Scenario); err != nil {
		return err
	}
	for name := range c.Params {
		if _, ok := bench.LookupParam(name); !ok {
			return fmt.Errorf("params: unknown parameter %q", name)
		}
	}

	if e := c.Expect.Error; e != nil {
		switch e.Kind {
		case ErrorInvalidParameter, ErrorMissingParameter:
			if e.Field == "" {
				return fmt.Errorf("expect.error: field is required for %s", e.Kind)
			}
		case ErrorDivideByZero:
		case ErrorToolFailure:
			if c.Tool == nil || c.Tool.ExitCode == 0 {
				return fmt.Errorf("expect.error: tool_failure needs a tool reply with a non-zero exit_code")
			}
		default:
			return fmt.Errorf("expect.error: unknown kind %q", e.Kind)
		}
		if len(c.Expect.Defines) > 0 && e.Kind != ErrorToolFailure {
			return fmt.Errorf("expect: defines cannot be checked when construction fails")
		}
		return nil
	}

	if len(c.Expect.Defines) == 0 {
		return fmt.Errorf("expect: defines or error is required")
	}
	return nil
}
