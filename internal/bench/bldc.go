package bench

import (
	"fmt"

	"github.com/roach88/motorbench/internal/timing"
)

func stepCycles(clock timing.ClockSpec, stepNs int64) (int64, error) {
	cycles, err := clock.CyclesFromPeriod(stepNs)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ParamStepDurationNs, err)
	}
	return cycles, nil
}

// BLDCInput holds the raw input of the open-loop commutation bench.
type BLDCInput struct {
	StepDurationNs int64
}

// BLDC configures open-loop BLDC commutation driven by a step timer.
type BLDC struct {
	base
	stepCycles int64
}

var _ Config = BLDC{}

// NewBLDC derives and validates an open-loop commutation configuration.
func NewBLDC(clock timing.ClockSpec, in BLDCInput) (BLDC, error) {
	b, err := newBase(clock)
	if err != nil {
		return BLDC{}, err
	}
	steps, err := stepCycles(clock, in.StepDurationNs)
	if err != nil {
		return BLDC{}, err
	}
	c := BLDC{base: b, stepCycles: steps}
	if err := c.Validate(); err != nil {
		return BLDC{}, err
	}
	return c, nil
}

func (c BLDC) Scenario() Scenario { return ScenarioBLDC }

// StepDurationCycles returns the commutation step length in clock cycles.
func (c BLDC) StepDurationCycles() int64 { return c.stepCycles }

func (c BLDC) Validate() error {
	return checkNonNegative("step_duration_cycles", c.stepCycles)
}

func (c BLDC) Defines() []Define {
	return []Define{
		c.clockDefine(),
		{Name: DefineStepDurationCycles, Value: c.stepCycles},
	}
}

// BLDCPWMInput holds the raw inputs of open-loop commutation with PWM.
type BLDCPWMInput struct {
	StepDurationNs int64
	PWMFreqHz      int64
	Duty           int64
}

// BLDCPWM configures open-loop commutation with a PWM duty shared by all
// three phases.
type BLDCPWM struct {
	base
	stepCycles int64
	pwmPeriod  int64
	duty       int64
}

var _ Config = BLDCPWM{}

// NewBLDCPWM derives and validates an open-loop commutation with PWM.
func NewBLDCPWM(clock timing.ClockSpec, in BLDCPWMInput) (BLDCPWM, error) {
	b, err := newBase(clock)
	if err != nil {
		return BLDCPWM{}, err
	}
	steps, err := stepCycles(clock, in.StepDurationNs)
	if err != nil {
		return BLDCPWM{}, err
	}
	period, err := pwmPeriod(clock, in.PWMFreqHz)
	if err != nil {
		return BLDCPWM{}, err
	}
	c := BLDCPWM{base: b, stepCycles: steps, pwmPeriod: period, duty: in.Duty}
	if err := c.Validate(); err != nil {
		return BLDCPWM{}, err
	}
	return c, nil
}

func (c BLDCPWM) Scenario() Scenario { return ScenarioBLDCPWM }

func (c BLDCPWM) StepDurationCycles() int64 { return c.stepCycles }
func (c BLDCPWM) PWMPeriod() int64 { return c.pwmPeriod }
func (c BLDCPWM) Duty() int64 { return c.duty }

func (c BLDCPWM) Validate() error {
	if err := checkNonNegative("step_duration_cycles", c.stepCycles); err != nil {
		return err
	}
	return checkDuty(ParamDuty, c.duty, c.pwmPeriod)
}

func (c BLDCPWM) Defines() []Define {
	return []Define{
		c.clockDefine(),
		{Name: DefineStepDurationCycles, Value: c.stepCycles},
		{Name: DefinePWMPeriod, Value: c.pwmPeriod},
		{Name: DefineDuty, Value: c.duty},
	}
}

// BLDCPWMHallInput holds the raw inputs of Hall-driven commutation with PWM.
type BLDCPWMHallInput struct {
	PWMFreqHz int64
	Duty      int64
	Hall      HallInput
}

// BLDCPWMHall configures commutation driven by the emulated Hall sensor.
// It has no step timer: the Hall signal owns commutation timing.
type BLDCPWMHall struct {
	base
	hallTiming
	pwmPeriod int64
	duty      int64
}

var _ Config = BLDCPWMHall{}

// NewBLDCPWMHall derives and validates Hall-driven commutation with PWM.
func NewBLDCPWMHall(clock timing.ClockSpec, in BLDCPWMHallInput) (BLDCPWMHall, error) {
	b, err := newBase(clock)
	if err != nil {
		return BLDCPWMHall{}, err
	}
	period, err := pwmPeriod(clock, in.PWMFreqHz)
	if err != nil {
		return BLDCPWMHall{}, err
	}
	ht, err := newHallTiming(clock, in.Hall)
	if err != nil {
		return BLDCPWMHall{}, err
	}
	c := BLDCPWMHall{base: b, hallTiming: ht, pwmPeriod: period, duty: in.Duty}
	if err := c.Validate(); err != nil {
		return BLDCPWMHall{}, err
	}
	return c, nil
}

func (c BLDCPWMHall) Scenario() Scenario { return ScenarioBLDCPWMHall }

func (c BLDCPWMHall) PWMPeriod() int64 { return c.pwmPeriod }
func (c BLDCPWMHall) Duty() int64 { return c.duty }

func (c BLDCPWMHall) Validate() error {
	if err := checkDuty(ParamDuty, c.duty, c.pwmPeriod); err != nil {
		return err
	}
	return c.hallTiming.validate()
}

func (c BLDCPWMHall) Defines() []Define {
	return append([]Define{
		c.clockDefine(),
		{Name: DefinePWMPeriod, Value: c.pwmPeriod},
		{Name: DefineDuty, Value: c.duty},
	}, c.hallTiming.defines()...)
}
