package bench

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/motorbench/internal/timing"
)

// Config is a validated, immutable parameter set for one test bench.
type Config interface {
	// Scenario identifies the bench this configuration targets.
	Scenario() Scenario

	// Clock returns the main clock the cycle counts were derived from.
	Clock() timing.ClockSpec

	// Validate re-checks the scenario invariants.
	Validate() error

	// Defines returns the compile-time constants in render order.
	Defines() []Define
}

// Define is one compile-time constant handed to the simulator.
type Define struct {
	Name  string
	Value int64
}

func (d Define) String() string {
	return d.Name + "=" + strconv.FormatInt(d.Value, 10)
}

// InvalidParameterError reports a value outside the range a bench can represent.
type InvalidParameterError struct {
	// Field is the raw or derived parameter name (e.g. "duty_a").
	Field string

	// Range is the permitted interval, e.g. "[0,5000)".
	Range string

	// Value is the rejected value.
	Value int64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("InvalidParameter(%s, %s): got %d", e.Field, e.Range, e.Value)
}

// IsInvalidParameter reports whether err is an InvalidParameterError.
// Uses errors.As to handle wrapped errors.
func IsInvalidParameter(err error) bool {
	var ipe *InvalidParameterError
	return errors.As(err, &ipe)
}

// base carries what every scenario shares.
type base struct {
	clock timing.ClockSpec
}

func newBase(clock timing.ClockSpec) (base, error) {
	if clock.FrequencyHz <= 0 || clock.PeriodNs <= 0 {
		return base{}, fmt.Errorf("clock %d Hz / %d ns: %w", clock.FrequencyHz, clock.PeriodNs, timing.ErrDivideByZero)
	}
	return base{clock: clock}, nil
}

func (b base) Clock() timing.ClockSpec {
	return b.clock
}

func (b base) clockDefine() Define {
	return Define{Name: DefineClockPeriodNs, Value: b.clock.PeriodNs}
}

// checkDuty enforces 0 <= duty < period.
func checkDuty(field string, duty, period int64) error {
	if duty < 0 || duty >= period {
		return &InvalidParameterError{
			Field: field,
			Range: fmt.Sprintf("[0,%d)", period),
			Value: duty,
		}
	}
	return nil
}

// checkPositive enforces value > 0 on a raw input.
func checkPositive(field string, value int64) error {
	if value <= 0 {
		return &InvalidParameterError{Field: field, Range: "(0,+inf)", Value: value}
	}
	return nil
}

// checkNonNegative enforces value >= 0.
func checkNonNegative(field string, value int64) error {
	if value < 0 {
		return &InvalidParameterError{Field: field, Range: "[0,+inf)", Value: value}
	}
	return nil
}

// pwmPeriod derives the PWM period in clock cycles.
func pwmPeriod(clock timing.ClockSpec, freqHz int64) (int64, error) {
	period, err := clock.CyclesPerPeriodOf(freqHz)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ParamPWMFreqHz, err)
	}
	return period, nil
}
