package params

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motorbench/internal/bench"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMap(t *testing.T) {
	m := Map{"duty_a": 100, "clock_mhz": 100}

	v, err := m.Int("duty_a")
	require.NoError(t, err)
	assert.Equal(t, int64(100), v)

	_, err = m.Int("duty_b")
	assert.True(t, IsMissing(err))
	assert.Equal(t, `missing parameter "duty_b"`, err.Error())

	assert.Equal(t, []string{"clock_mhz", "duty_a"}, m.Names())
}

func TestChain_FirstSourceWins(t *testing.T) {
	c := Chain{Map{"duty": 1}, nil, Map{"duty": 2, "clock_mhz": 50}}

	v, err := c.Int("duty")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = c.Int("clock_mhz")
	require.NoError(t, err)
	assert.Equal(t, int64(50), v)

	_, err = c.Int("pwm_freq_hz")
	assert.True(t, IsMissing(err))
}

type failingSource struct{ err error }

func (f failingSource) Int(string) (int64, error) { return 0, f.err }

func TestChain_StopsOnHardError(t *testing.T) {
	boom := errors.New("boom")
	c := Chain{Map{}, failingSource{boom}, Map{"duty": 3}}

	_, err := c.Int("duty")
	assert.ErrorIs(t, err, boom)
}

func TestChain_FeedsBench(t *testing.T) {
	cfg, err := bench.Build(bench.ScenarioHall, Chain{
		Map{"clock_mhz": 50},
		Map{"hall_period_ns": 1_000_000, "hall_strobe_ns": 100},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), cfg.(bench.Hall).HallPeriodClk())
}

func TestParseAssignments(t *testing.T) {
	m, err := ParseAssignments([]string{"duty_a=100", " clock_mhz = 50 "})
	require.NoError(t, err)
	assert.Equal(t, Map{"duty_a": 100, "clock_mhz": 50}, m)

	tests := []struct {
		name string
		pair string
		want string
	}{
		{"no equals", "duty_a", "expected name=value"},
		{"unknown name", "dutyA=3", `unknown parameter "dutyA"`},
		{"not an integer", "duty_a=1.5", "parameter duty_a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssignments([]string{tt.pair})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPrompt(t *testing.T) {
	in := strings.NewReader("100\n 20000 \n")
	var out bytes.Buffer
	p := NewPrompt(in, &out)

	v, err := p.Int(bench.ParamClockMHz)
	require.NoError(t, err)
	assert.Equal(t, int64(100), v)

	v, err = p.Int(bench.ParamPWMFreqHz)
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), v)

	assert.Equal(t, "Enter main clock frequency [MHz]: Enter PWM frequency [Hz]: ", out.String())
}

func TestPrompt_LastLineWithoutNewline(t *testing.T) {
	p := NewPrompt(strings.NewReader("42"), &bytes.Buffer{})
	v, err := p.Int("duty")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestPrompt_EOFIsMissing(t *testing.T) {
	p := NewPrompt(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.Int("duty")
	assert.True(t, IsMissing(err))
}

func TestPrompt_BadInput(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("fast\n"), &out)
	_, err := p.Int("unknown_thing")
	require.Error(t, err)
	assert.False(t, IsMissing(err))
	assert.Contains(t, err.Error(), "parameter unknown_thing")
	assert.Equal(t, "Enter unknown_thing: ", out.String())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pwm.yaml", `
scenario: pwm
clock_mhz: 100
pwm_freq_hz: 20000
duty_a: 100
duty_b: 2500
duty_c: 4999
`)
	f, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "pwm", f.Scenario)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, Map{
		"clock_mhz":   100,
		"pwm_freq_hz": 20_000,
		"duty_a":      100,
		"duty_b":      2500,
		"duty_c":      4999,
	}, f.Values)

	v, err := f.Int("duty_b")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), v)
}

func TestLoadYAML_RejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "typo.yaml", "clock_mhz: 100\ndutyA: 3\n")
	_, err := LoadYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dutyA")
}

func TestLoadYAML_RejectsNonInteger(t *testing.T) {
	path := writeFile(t, "bad.yaml", "clock_mhz: fast\n")
	_, err := LoadYAML(path)
	assert.Error(t, err)
}

func TestLoadYAML_MissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCUE(t *testing.T) {
	path := writeFile(t, "hall.cue", `
scenario:       "hall"
clock_mhz:      50
hall_period_ns: 1_000_000
hall_strobe_ns: 200
`)
	f, err := LoadCUE(path)
	require.NoError(t, err)
	assert.Equal(t, "hall", f.Scenario)
	assert.Equal(t, Map{"clock_mhz": 50, "hall_period_ns": 1_000_000, "hall_strobe_ns": 200}, f.Values)
}

func TestLoadCUE_DerivedValues(t *testing.T) {
	path := writeFile(t, "bldc.cue", `
clock_mhz:        100
step_duration_ns: 2 * 1_000_000
`)
	f, err := LoadCUE(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), f.Values["step_duration_ns"])
	assert.Empty(t, f.Scenario)
}

func TestLoadCUE_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"negative duty", "duty_a: -1\n", "duty_a"},
		{"zero clock", "clock_mhz: 0\n", "clock_mhz"},
		{"clock above 1 GHz", "clock_mhz: 1001\n", "clock_mhz"},
		{"unknown field", "dutyA: 3\n", "dutyA"},
		{"unknown scenario", `scenario: "stepper"` + "\n", "scenario"},
		{"not an int", `clock_mhz: "100"` + "\n", "clock_mhz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCUE(writeFile(t, "p.cue", tt.content))
			require.Error(t, err)
			var ce *CUEError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCUE_SyntaxErrorHasPosition(t *testing.T) {
	path := writeFile(t, "broken.cue", "clock_mhz: 100\nduty: {\n")
	_, err := LoadCUE(path)
	var ce *CUEError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Pos.IsValid())
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	y := writeFile(t, "a.yml", "duty: 5\n")
	f, err := Load(y)
	require.NoError(t, err)
	assert.Equal(t, Map{"duty": 5}, f.Values)

	c := writeFile(t, "a.cue", "duty: 6\n")
	f, err = Load(c)
	require.NoError(t, err)
	assert.Equal(t, Map{"duty": 6}, f.Values)

	_, err = Load(writeFile(t, "a.json", "{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported parameter file")
}
