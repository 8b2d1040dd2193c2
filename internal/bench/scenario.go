package bench

import (
	"errors"
	"fmt"
)

// Scenario names a simulation test bench.
type Scenario string

const (
	ScenarioPWM         Scenario = "pwm"
	ScenarioHall        Scenario = "hall"
	ScenarioBLDC        Scenario = "bldc"
	ScenarioBLDCPWM     Scenario = "bldc-pwm"
	ScenarioBLDCPWMHall Scenario = "bldc-pwm-hall"
)

// Raw parameter names. Frequencies are in Hz, durations in ns, duties in
// clock cycles, except the clock itself which is entered in MHz.
const (
	ParamClockMHz       = "clock_mhz"
	ParamPWMFreqHz      = "pwm_freq_hz"
	ParamDutyA          = "duty_a"
	ParamDutyB          = "duty_b"
	ParamDutyC          = "duty_c"
	ParamDuty           = "duty"
	ParamHallPeriodNs   = "hall_period_ns"
	ParamHallStrobeNs   = "hall_strobe_ns"
	ParamStepDurationNs = "step_duration_ns"
)

// Compile-time define names shared with the HDL sources.
const (
	DefineClockPeriodNs      = "MAIN_CLOCK_PERIOD_NS"
	DefinePWMPeriod          = "PWM_PERIOD"
	DefineDutyA              = "DUTY_A"
	DefineDutyB              = "DUTY_B"
	DefineDutyC              = "DUTY_C"
	DefineDuty               = "DUTY"
	DefineStepDurationCycles = "STEP_DURATION_CYCLES"
	DefineHallPeriodClk      = "HALL_SENSOR_PERIOD_CLK"
	DefineHallStrobeDuration = "HALL_SENSOR_STROBE_DURATION_CLK"
)

// ParamSpec describes one raw input a scenario needs.
type ParamSpec struct {
	Name  string
	Label string
	Unit  string
}

var paramSpecs = map[string]ParamSpec{
	ParamClockMHz:       {ParamClockMHz, "main clock frequency", "MHz"},
	ParamPWMFreqHz:      {ParamPWMFreqHz, "PWM frequency", "Hz"},
	ParamDutyA:          {ParamDutyA, "duty cycle A (0-PWM period)", "clk cycles"},
	ParamDutyB:          {ParamDutyB, "duty cycle B (0-PWM period)", "clk cycles"},
	ParamDutyC:          {ParamDutyC, "duty cycle C (0-PWM period)", "clk cycles"},
	ParamDuty:           {ParamDuty, "duty cycle (0-PWM period)", "clk cycles"},
	ParamHallPeriodNs:   {ParamHallPeriodNs, "simulated Hall sensor period", "ns"},
	ParamHallStrobeNs:   {ParamHallStrobeNs, "simulated Hall sensor strobe duration", "ns"},
	ParamStepDurationNs: {ParamStepDurationNs, "commutation step duration", "ns"},
}

type scenarioInfo struct {
	testbench string
	params    []string
	defines   []string
}

var scenarios = map[Scenario]scenarioInfo{
	ScenarioPWM: {
		testbench: "tb_pwm_generator_3phase",
		params:    []string{ParamClockMHz, ParamPWMFreqHz, ParamDutyA, ParamDutyB, ParamDutyC},
		defines:   []string{DefineClockPeriodNs, DefinePWMPeriod, DefineDutyA, DefineDutyB, DefineDutyC},
	},
	ScenarioHall: {
		testbench: "tb_hall_simulator",
		params:    []string{ParamClockMHz, ParamHallPeriodNs, ParamHallStrobeNs},
		defines:   []string{DefineClockPeriodNs, DefineHallPeriodClk, DefineHallStrobeDuration},
	},
	ScenarioBLDC: {
		testbench: "tb_bldc_simple",
		params:    []string{ParamClockMHz, ParamStepDurationNs},
		defines:   []string{DefineClockPeriodNs, DefineStepDurationCycles},
	},
	ScenarioBLDCPWM: {
		testbench: "tb_bldc_pwm",
		params:    []string{ParamClockMHz, ParamStepDurationNs, ParamPWMFreqHz, ParamDuty},
		defines:   []string{DefineClockPeriodNs, DefineStepDurationCycles, DefinePWMPeriod, DefineDuty},
	},
	ScenarioBLDCPWMHall: {
		testbench: "tb_bldc_pwm_hall",
		params:    []string{ParamClockMHz, ParamPWMFreqHz, ParamDuty, ParamHallPeriodNs, ParamHallStrobeNs},
		defines:   []string{DefineClockPeriodNs, DefinePWMPeriod, DefineDuty, DefineHallPeriodClk, DefineHallStrobeDuration},
	},
}

// Scenarios returns every scenario in a stable order.
func Scenarios() []Scenario {
	return []Scenario{ScenarioPWM, ScenarioHall, ScenarioBLDC, ScenarioBLDCPWM, ScenarioBLDCPWMHall}
}

// ErrUnknownScenario is returned for a scenario name outside Scenarios().
var ErrUnknownScenario = errors.New("unknown scenario")

// ParseScenario resolves a scenario name.
func ParseScenario(name string) (Scenario, error) {
	s := Scenario(name)
	if _, ok := scenarios[s]; !ok {
		return "", fmt.Errorf("%w %q: must be one of %v", ErrUnknownScenario, name, Scenarios())
	}
	return s, nil
}

// Testbench returns the testbench module name, without extension.
func (s Scenario) Testbench() string {
	return scenarios[s].testbench
}

// Params returns the raw inputs the scenario needs, clock first.
func (s Scenario) Params() []ParamSpec {
	names := scenarios[s].params
	out := make([]ParamSpec, len(names))
	for i, n := range names {
		out[i] = paramSpecs[n]
	}
	return out
}

// DefineNames returns the compile-time define names in render order.
func (s Scenario) DefineNames() []string {
	return append([]string(nil), scenarios[s].defines...)
}

// LookupParam returns the spec for a raw parameter name.
func LookupParam(name string) (ParamSpec, bool) {
	p, ok := paramSpecs[name]
	return p, ok
}

func (s Scenario) String() string {
	return string(s)
}
