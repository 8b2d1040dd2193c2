package bench

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motorbench/internal/timing"
)

func defineNames(c Config) []string {
	var names []string
	for _, d := range c.Defines() {
		names = append(names, d.Name)
	}
	return names
}

func TestNewPWM_EndToEnd(t *testing.T) {
	clk := timing.MustClockSpecMHz(100)
	require.Equal(t, int64(10), clk.PeriodNs)

	c, err := NewPWM(clk, PWMInput{PWMFreqHz: 20_000, DutyA: 100, DutyB: 0, DutyC: 4999})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), c.PWMPeriod())
	assert.Equal(t, []Define{
		{DefineClockPeriodNs, 10},
		{DefinePWMPeriod, 5000},
		{DefineDutyA, 100},
		{DefineDutyB, 0},
		{DefineDutyC, 4999},
	}, c.Defines())
}

func TestNewPWM_DutyBoundary(t *testing.T) {
	clk := timing.MustClockSpecMHz(100)

	_, err := NewPWM(clk, PWMInput{PWMFreqHz: 20_000, DutyA: 4999})
	require.NoError(t, err, "duty == period-1 is valid")

	_, err = NewPWM(clk, PWMInput{PWMFreqHz: 20_000, DutyA: 5000})
	require.Error(t, err)

	var ipe *InvalidParameterError
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, "duty_a", ipe.Field)
	assert.Equal(t, "[0,5000)", ipe.Range)
	assert.Equal(t, int64(5000), ipe.Value)
	assert.Contains(t, err.Error(), "InvalidParameter(duty_a, [0,5000))")
}

func TestNewPWM_EachPhaseChecked(t *testing.T) {
	clk := timing.MustClockSpecMHz(100)

	tests := []struct {
		name  string
		in    PWMInput
		field string
	}{
		{"duty_a negative", PWMInput{PWMFreqHz: 20_000, DutyA: -1}, "duty_a"},
		{"duty_b too large", PWMInput{PWMFreqHz: 20_000, DutyB: 6000}, "duty_b"},
		{"duty_c equal period", PWMInput{PWMFreqHz: 20_000, DutyC: 5000}, "duty_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewPWM(clk, tt.in)
			var ipe *InvalidParameterError
			require.ErrorAs(t, err, &ipe)
			assert.Equal(t, tt.field, ipe.Field)
			assert.Equal(t, PWM{}, c, "no partial construction")
		})
	}
}

func TestNewPWM_ZeroFrequencyIsDivideByZero(t *testing.T) {
	_, err := NewPWM(timing.MustClockSpecMHz(100), PWMInput{PWMFreqHz: 0})
	assert.ErrorIs(t, err, timing.ErrDivideByZero)
	assert.False(t, IsInvalidParameter(err))
}

func TestNewPWM_FrequencyAboveClockRejectsEveryDuty(t *testing.T) {
	// pwm_period truncates to 0, so [0,0) is empty.
	_, err := NewPWM(timing.MustClockSpecMHz(1), PWMInput{PWMFreqHz: 2_000_000})
	var ipe *InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "[0,0)", ipe.Range)
}

func TestNewHall_EndToEnd(t *testing.T) {
	clk := timing.MustClockSpecMHz(50)

	c, err := NewHall(clk, HallInput{PeriodNs: 1_000_000, StrobeNs: 200})
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), c.HallPeriodClk())
	assert.Equal(t, int64(10), c.HallStrobeDurationClk())
	assert.Equal(t, []string{DefineClockPeriodNs, DefineHallPeriodClk, DefineHallStrobeDuration}, defineNames(c))
}

func TestNewHall_StrobeTruncatesToZero(t *testing.T) {
	c, err := NewHall(timing.MustClockSpecMHz(50), HallInput{PeriodNs: 1000, StrobeNs: 19})
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.HallStrobeDurationClk())
	assert.NoError(t, c.Validate())
}

func TestNewHall_RejectsNonPositiveRaw(t *testing.T) {
	clk := timing.MustClockSpecMHz(50)

	_, err := NewHall(clk, HallInput{PeriodNs: 0, StrobeNs: 10})
	var ipe *InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, ParamHallPeriodNs, ipe.Field)

	_, err = NewHall(clk, HallInput{PeriodNs: 1000, StrobeNs: -3})
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, ParamHallStrobeNs, ipe.Field)
}

func TestNewBLDC(t *testing.T) {
	c, err := NewBLDC(timing.MustClockSpecMHz(100), BLDCInput{StepDurationNs: 1_000_005})
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), c.StepDurationCycles())
	assert.Equal(t, []Define{{DefineClockPeriodNs, 10}, {DefineStepDurationCycles, 100_000}}, c.Defines())

	zero, err := NewBLDC(timing.MustClockSpecMHz(100), BLDCInput{StepDurationNs: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), zero.StepDurationCycles())

	_, err = NewBLDC(timing.MustClockSpecMHz(100), BLDCInput{StepDurationNs: -100})
	var ipe *InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "step_duration_cycles", ipe.Field)
	assert.Equal(t, "[0,+inf)", ipe.Range)
}

func TestNewBLDCPWM(t *testing.T) {
	clk := timing.MustClockSpecMHz(100)

	c, err := NewBLDCPWM(clk, BLDCPWMInput{StepDurationNs: 2_000_000, PWMFreqHz: 20_000, Duty: 2500})
	require.NoError(t, err)
	assert.Equal(t, []Define{
		{DefineClockPeriodNs, 10},
		{DefineStepDurationCycles, 200_000},
		{DefinePWMPeriod, 5000},
		{DefineDuty, 2500},
	}, c.Defines())

	_, err = NewBLDCPWM(clk, BLDCPWMInput{StepDurationNs: 2_000_000, PWMFreqHz: 20_000, Duty: 5000})
	var ipe *InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "duty", ipe.Field)
	assert.Equal(t, "[0,5000)", ipe.Range)
}

func TestNewBLDCPWMHall_NoStepDefine(t *testing.T) {
	c, err := NewBLDCPWMHall(timing.MustClockSpecMHz(50), BLDCPWMHallInput{
		PWMFreqHz: 25_000,
		Duty:      1000,
		Hall:      HallInput{PeriodNs: 1_000_000, StrobeNs: 500},
	})
	require.NoError(t, err)

	names := defineNames(c)
	assert.NotContains(t, names, DefineStepDurationCycles)
	assert.Equal(t, []string{
		DefineClockPeriodNs, DefinePWMPeriod, DefineDuty, DefineHallPeriodClk, DefineHallStrobeDuration,
	}, names)
	assert.Equal(t, int64(2000), c.PWMPeriod())
	assert.Equal(t, int64(50_000), c.HallPeriodClk())
	assert.Equal(t, int64(25), c.HallStrobeDurationClk())
}

func TestNewBLDCPWMHall_DutyChecked(t *testing.T) {
	_, err := NewBLDCPWMHall(timing.MustClockSpecMHz(50), BLDCPWMHallInput{
		PWMFreqHz: 25_000,
		Duty:      2000,
		Hall:      HallInput{PeriodNs: 1_000_000, StrobeNs: 500},
	})
	assert.True(t, IsInvalidParameter(err))
}

func TestConstructors_RejectZeroClock(t *testing.T) {
	var zero timing.ClockSpec

	_, err := NewPWM(zero, PWMInput{PWMFreqHz: 20_000})
	assert.ErrorIs(t, err, timing.ErrDivideByZero)
	_, err = NewHall(zero, HallInput{PeriodNs: 1, StrobeNs: 1})
	assert.ErrorIs(t, err, timing.ErrDivideByZero)
	_, err = NewBLDC(zero, BLDCInput{StepDurationNs: 1})
	assert.ErrorIs(t, err, timing.ErrDivideByZero)
}

func TestDefinesMatchScenarioTable(t *testing.T) {
	clk := timing.MustClockSpecMHz(100)
	hall := HallInput{PeriodNs: 1_000_000, StrobeNs: 100}

	pwm, _ := NewPWM(clk, PWMInput{PWMFreqHz: 20_000})
	h, _ := NewHall(clk, hall)
	b, _ := NewBLDC(clk, BLDCInput{StepDurationNs: 1000})
	bp, _ := NewBLDCPWM(clk, BLDCPWMInput{StepDurationNs: 1000, PWMFreqHz: 20_000})
	bph, _ := NewBLDCPWMHall(clk, BLDCPWMHallInput{PWMFreqHz: 20_000, Hall: hall})

	for _, c := range []Config{pwm, h, b, bp, bph} {
		t.Run(c.Scenario().String(), func(t *testing.T) {
			assert.Equal(t, c.Scenario().DefineNames(), defineNames(c))
			assert.Equal(t, clk, c.Clock())
			assert.NoError(t, c.Validate())
		})
	}
}

func TestDefineString(t *testing.T) {
	assert.Equal(t, "PWM_PERIOD=5000", Define{Name: DefinePWMPeriod, Value: 5000}.String())
}

type mapValues map[string]int64

func (m mapValues) Int(name string) (int64, error) {
	v, ok := m[name]
	if !ok {
		return 0, fmt.Errorf("missing %s", name)
	}
	return v, nil
}

func TestBuild(t *testing.T) {
	c, err := Build(ScenarioPWM, mapValues{
		ParamClockMHz:  100,
		ParamPWMFreqHz: 20_000,
		ParamDutyA:     100,
		ParamDutyB:     200,
		ParamDutyC:     300,
	})
	require.NoError(t, err)
	assert.Equal(t, ScenarioPWM, c.Scenario())
	assert.Equal(t, int64(5000), c.(PWM).PWMPeriod())
}

func TestBuild_AllScenarios(t *testing.T) {
	values := mapValues{
		ParamClockMHz:       100,
		ParamPWMFreqHz:      20_000,
		ParamDutyA:          1,
		ParamDutyB:          2,
		ParamDutyC:          3,
		ParamDuty:           4,
		ParamHallPeriodNs:   1_000_000,
		ParamHallStrobeNs:   1000,
		ParamStepDurationNs: 5000,
	}
	for _, s := range Scenarios() {
		t.Run(s.String(), func(t *testing.T) {
			c, err := Build(s, values)
			require.NoError(t, err)
			assert.Equal(t, s, c.Scenario())
		})
	}
}

func TestBuild_MissingValueStopsBeforeDerivation(t *testing.T) {
	c, err := Build(ScenarioHall, mapValues{ParamClockMHz: 50, ParamHallPeriodNs: 1000})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), ParamHallStrobeNs)
}

func TestBuild_ZeroClock(t *testing.T) {
	_, err := Build(ScenarioBLDC, mapValues{ParamClockMHz: 0, ParamStepDurationNs: 10})
	assert.ErrorIs(t, err, timing.ErrDivideByZero)
	assert.Contains(t, err.Error(), ParamClockMHz)
}

func TestBuild_ClockTooFastToScale(t *testing.T) {
	_, err := Build(ScenarioPWM, mapValues{
		ParamClockMHz:  18_446_744_073_710,
		ParamPWMFreqHz: 20_000,
		ParamDutyA:     1,
		ParamDutyB:     1,
		ParamDutyC:     1,
	})
	assert.ErrorIs(t, err, timing.ErrDivideByZero)
}

func TestBuild_UnknownScenario(t *testing.T) {
	_, err := Build(Scenario("stepper"), mapValues{})
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestParseScenario(t *testing.T) {
	for _, s := range Scenarios() {
		got, err := ParseScenario(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseScenario("pwm3")
	assert.ErrorIs(t, err, ErrUnknownScenario)
	assert.Contains(t, err.Error(), `"pwm3"`)
}

func TestScenarioParams(t *testing.T) {
	params := ScenarioBLDCPWMHall.Params()
	require.NotEmpty(t, params)
	assert.Equal(t, ParamClockMHz, params[0].Name)
	for _, p := range params {
		assert.NotEqual(t, ParamStepDurationNs, p.Name)
		assert.NotEmpty(t, p.Label)
		assert.NotEmpty(t, p.Unit)
	}

	assert.Equal(t, "tb_pwm_generator_3phase", ScenarioPWM.Testbench())
	assert.Equal(t, "tb_hall_simulator", ScenarioHall.Testbench())

	spec, ok := LookupParam(ParamDutyA)
	require.True(t, ok)
	assert.Equal(t, "clk cycles", spec.Unit)
	_, ok = LookupParam("nope")
	assert.False(t, ok)
}
