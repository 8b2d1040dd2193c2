package bench

import "github.com/roach88/motorbench/internal/timing"

// PWMInput holds the raw inputs of the three-phase PWM bench.
// Duties are in clock cycles.
type PWMInput struct {
	PWMFreqHz int64
	DutyA     int64
	DutyB     int64
	DutyC     int64
}

// PWM configures the three-phase PWM generator bench.
type PWM struct {
	base
	pwmPeriod int64
	dutyA     int64
	dutyB     int64
	dutyC     int64
}

var _ Config = PWM{}

// NewPWM derives and validates a PWM configuration.
func NewPWM(clock timing.ClockSpec, in PWMInput) (PWM, error) {
	b, err := newBase(clock)
	if err != nil {
		return PWM{}, err
	}
	period, err := pwmPeriod(clock, in.PWMFreqHz)
	if err != nil {
		return PWM{}, err
	}

	c := PWM{
		base:      b,
		pwmPeriod: period,
		dutyA:     in.DutyA,
		dutyB:     in.DutyB,
		dutyC:     in.DutyC,
	}
	if err := c.Validate(); err != nil {
		return PWM{}, err
	}
	return c, nil
}

func (c PWM) Scenario() Scenario { return ScenarioPWM }

// PWMPeriod returns the PWM period in clock cycles.
func (c PWM) PWMPeriod() int64 { return c.pwmPeriod }

func (c PWM) DutyA() int64 { return c.dutyA }
func (c PWM) DutyB() int64 { return c.dutyB }
func (c PWM) DutyC() int64 { return c.dutyC }

// Validate checks every phase duty against the PWM period.
func (c PWM) Validate() error {
	if err := checkDuty(ParamDutyA, c.dutyA, c.pwmPeriod); err != nil {
		return err
	}
	if err := checkDuty(ParamDutyB, c.dutyB, c.pwmPeriod); err != nil {
		return err
	}
	return checkDuty(ParamDutyC, c.dutyC, c.pwmPeriod)
}

func (c PWM) Defines() []Define {
	return []Define{
		c.clockDefine(),
		{Name: DefinePWMPeriod, Value: c.pwmPeriod},
		{Name: DefineDutyA, Value: c.dutyA},
		{Name: DefineDutyB, Value: c.dutyB},
		{Name: DefineDutyC, Value: c.dutyC},
	}
}
