package timing

import (
	"errors"
	"fmt"
)

// NanosPerSecond is the number of nanoseconds in one second.
const NanosPerSecond int64 = 1_000_000_000

// HzPerMHz converts megahertz to hertz.
const HzPerMHz int64 = 1_000_000

// ErrDivideByZero is returned when a frequency or period divisor is not positive.
var ErrDivideByZero = errors.New("divide by zero")

// CyclesFromPeriod returns how many whole clock periods fit in periodNs.
// The result truncates toward zero.
func CyclesFromPeriod(periodNs, clkPeriodNs int64) (int64, error) {
	if clkPeriodNs <= 0 {
		return 0, fmt.Errorf("clock period %d ns: %w", clkPeriodNs, ErrDivideByZero)
	}
	return periodNs / clkPeriodNs, nil
}

// CyclesFromFrequencyRatio returns the number of clock cycles in one period of
// targetFreqHz.
func CyclesFromFrequencyRatio(clkFreqHz, targetFreqHz int64) (int64, error) {
	if targetFreqHz <= 0 {
		return 0, fmt.Errorf("target frequency %d Hz: %w", targetFreqHz, ErrDivideByZero)
	}
	return clkFreqHz / targetFreqHz, nil
}

// ClockSpec describes the main clock of a bench run.
type ClockSpec struct {
	FrequencyHz int64
	PeriodNs    int64
}

// NewClockSpec builds a ClockSpec from a frequency in hertz.
//
// Frequencies above 1 GHz truncate to a zero nanosecond period, which every
// later period conversion would divide by, so they are rejected here.
func NewClockSpec(frequencyHz int64) (ClockSpec, error) {
	if frequencyHz <= 0 {
		return ClockSpec{}, fmt.Errorf("clock frequency %d Hz: %w", frequencyHz, ErrDivideByZero)
	}
	period := NanosPerSecond / frequencyHz
	if period == 0 {
		return ClockSpec{}, fmt.Errorf("clock frequency %d Hz has a sub-nanosecond period: %w", frequencyHz, ErrDivideByZero)
	}
	return ClockSpec{FrequencyHz: frequencyHz, PeriodNs: period}, nil
}

// MaxClockMHz is the fastest clock with a whole-nanosecond period.
const MaxClockMHz = NanosPerSecond / HzPerMHz

// NewClockSpecMHz builds a ClockSpec from a frequency in megahertz.
// Values above MaxClockMHz are rejected before conversion to hertz.
func NewClockSpecMHz(mhz int64) (ClockSpec, error) {
	if mhz <= 0 {
		return ClockSpec{}, fmt.Errorf("clock frequency %d MHz: %w", mhz, ErrDivideByZero)
	}
	if mhz > MaxClockMHz {
		return ClockSpec{}, fmt.Errorf("clock frequency %d MHz has a sub-nanosecond period: %w", mhz, ErrDivideByZero)
	}
	return NewClockSpec(mhz * HzPerMHz)
}

// MustClockSpecMHz is like NewClockSpecMHz but panics on error.
// Use only in tests or with constant inputs.
func MustClockSpecMHz(mhz int64) ClockSpec {
	c, err := NewClockSpecMHz(mhz)
	if err != nil {
		panic(err)
	}
	return c
}

// CyclesFromPeriod converts a duration in nanoseconds to cycles of this clock.
func (c ClockSpec) CyclesFromPeriod(periodNs int64) (int64, error) {
	return CyclesFromPeriod(periodNs, c.PeriodNs)
}

// CyclesPerPeriodOf returns the number of cycles of this clock in one period
// of targetFreqHz.
func (c ClockSpec) CyclesPerPeriodOf(targetFreqHz int64) (int64, error) {
	return CyclesFromFrequencyRatio(c.FrequencyHz, targetFreqHz)
}
