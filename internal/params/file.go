package params

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/motorbench/internal/bench"
)

// File is a parameter set read from disk.
type File struct {
	// Path is the file the values came from.
	Path string

	// Scenario is the optional bench named in the file.
	Scenario string

	// Values holds every parameter the file sets.
	Values Map
}

// Int returns the named value or a *MissingError.
func (f *File) Int(name string) (int64, error) {
	return f.Values.Int(name)
}

// document is the on-disk shape shared by the YAML and CUE loaders.
type document struct {
	Scenario       string `yaml:"scenario" json:"scenario,omitempty"`
	ClockMHz       *int64 `yaml:"clock_mhz" json:"clock_mhz,omitempty"`
	PWMFreqHz      *int64 `yaml:"pwm_freq_hz" json:"pwm_freq_hz,omitempty"`
	DutyA          *int64 `yaml:"duty_a" json:"duty_a,omitempty"`
	DutyB          *int64 `yaml:"duty_b" json:"duty_b,omitempty"`
	DutyC          *int64 `yaml:"duty_c" json:"duty_c,omitempty"`
	Duty           *int64 `yaml:"duty" json:"duty,omitempty"`
	HallPeriodNs   *int64 `yaml:"hall_period_ns" json:"hall_period_ns,omitempty"`
	HallStrobeNs   *int64 `yaml:"hall_strobe_ns" json:"hall_strobe_ns,omitempty"`
	StepDurationNs *int64 `yaml:"step_duration_ns" json:"step_duration_ns,omitempty"`
}

func (d *document) toFile(path string) *File {
	values := Map{}
	set := func(name string, v *int64) {
		if v != nil {
			values[name] = *v
		}
	}
	set(bench.ParamClockMHz, d.ClockMHz)
	set(bench.ParamPWMFreqHz, d.PWMFreqHz)
	set(bench.ParamDutyA, d.DutyA)
	set(bench.ParamDutyB, d.DutyB)
	set(bench.ParamDutyC, d.DutyC)
	set(bench.ParamDuty, d.Duty)
	set(bench.ParamHallPeriodNs, d.HallPeriodNs)
	set(bench.ParamHallStrobeNs, d.HallStrobeNs)
	set(bench.ParamStepDurationNs, d.StepDurationNs)

	return &File{Path: path, Scenario: d.Scenario, Values: values}
}

// Load reads a parameter file, choosing the format by extension.
func Load(path string) (*File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, errors.Errorf("unsupported parameter file %q: want .yaml, .yml or .cue", path)
	}
}

// LoadYAML reads a flat YAML mapping of parameter values.
// Unknown keys are rejected so typos do not silently fall through to a prompt.
func LoadYAML(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read parameter file")
	}

	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse YAML %s", path)
	}
	return doc.toFile(path), nil
}
