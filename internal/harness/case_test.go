package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCase(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validCase = `
name: bldc
description: plain commutation
scenario: bldc
params:
  clock_mhz: 100
  step_duration_ns: 2000000
expect:
  defines:
    - MAIN_CLOCK_PERIOD_NS=10
    - STEP_DURATION_CYCLES=200000
`

func TestLoadCase(t *testing.T) {
	path := writeCase(t, t.TempDir(), "bldc.yaml", validCase)

	c, err := LoadCase(path)
	require.NoError(t, err)
	assert.Equal(t, "bldc", c.Name)
	assert.Equal(t, int64(2000000), c.Params["step_duration_ns"])
	assert.Nil(t, c.Tool)
	assert.Len(t, c.Expect.Defines, 2)
}

func TestLoadCase_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown field", validCase + "expects: {}\n", "expects"},
		{"no name", "description: x\nscenario: bldc\nexpect: {defines: [A=1]}\n", "name is required"},
		{"no description", "name: x\nscenario: bldc\nexpect: {defines: [A=1]}\n", "description is required"},
		{"unknown scenario", "name: x\ndescription: x\nscenario: stepper\nexpect: {defines: [A=1]}\n", "unknown scenario"},
		{"unknown param", "name: x\ndescription: x\nscenario: bldc\nparams: {clock: 1}\nexpect: {defines: [A=1]}\n", "unknown parameter"},
		{"no expectation", "name: x\ndescription: x\nscenario: bldc\nexpect: {}\n", "defines or error is required"},
		{"unknown error kind", "name: x\ndescription: x\nscenario: bldc\nexpect: {error: {kind: overflow}}\n", "unknown kind"},
		{"invalid parameter without field", "name: x\ndescription: x\nscenario: bldc\nexpect: {error: {kind: invalid_parameter}}\n", "field is required"},
		{"tool failure without reply", "name: x\ndescription: x\nscenario: bldc\nexpect: {error: {kind: tool_failure}}\n", "non-zero exit_code"},
		{"defines with rejection", "name: x\ndescription: x\nscenario: bldc\nexpect: {defines: [A=1], error: {kind: divide_by_zero}}\n", "cannot be checked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCase(t, t.TempDir(), "case.yaml", tt.content)
			_, err := LoadCase(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCase_MissingFile(t *testing.T) {
	_, err := LoadCase(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read case file")
}

func TestLoadCases_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "a.yaml", validCase)
	writeCase(t, dir, "b.yaml", validCase)

	_, err := LoadCases(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `case name "bldc"`)
}

func TestLoadCases_SortedByFileName(t *testing.T) {
	cases, err := LoadCases("testdata/cases")
	require.NoError(t, err)
	require.NotEmpty(t, cases)
	assert.Equal(t, "pwm_nominal", cases[0].Name)
}
