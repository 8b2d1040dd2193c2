package bench

import (
	"fmt"

	"github.com/roach88/motorbench/internal/timing"
)

// Values supplies raw parameter values by name.
type Values interface {
	Int(name string) (int64, error)
}

// Build collects every raw input the scenario needs from src, then constructs
// the configuration. No derivation starts until all inputs are present.
func Build(s Scenario, src Values) (Config, error) {
	info, ok := scenarios[s]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScenario, s)
	}

	raw := make(map[string]int64, len(info.params))
	for _, name := range info.params {
		v, err := src.Int(name)
		if err != nil {
			return nil, err
		}
		raw[name] = v
	}

	clock, err := timing.NewClockSpecMHz(raw[ParamClockMHz])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ParamClockMHz, err)
	}

	switch s {
	case ScenarioPWM:
		c, err := NewPWM(clock, PWMInput{
			PWMFreqHz: raw[ParamPWMFreqHz],
			DutyA:     raw[ParamDutyA],
			DutyB:     raw[ParamDutyB],
			DutyC:     raw[ParamDutyC],
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ScenarioHall:
		c, err := NewHall(clock, HallInput{
			PeriodNs: raw[ParamHallPeriodNs],
			StrobeNs: raw[ParamHallStrobeNs],
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ScenarioBLDC:
		c, err := NewBLDC(clock, BLDCInput{StepDurationNs: raw[ParamStepDurationNs]})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ScenarioBLDCPWM:
		c, err := NewBLDCPWM(clock, BLDCPWMInput{
			StepDurationNs: raw[ParamStepDurationNs],
			PWMFreqHz:      raw[ParamPWMFreqHz],
			Duty:           raw[ParamDuty],
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ScenarioBLDCPWMHall:
		c, err := NewBLDCPWMHall(clock, BLDCPWMHallInput{
			PWMFreqHz: raw[ParamPWMFreqHz],
			Duty:      raw[ParamDuty],
			Hall: HallInput{
				PeriodNs: raw[ParamHallPeriodNs],
				StrobeNs: raw[ParamHallStrobeNs],
			},
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownScenario, s)
}
