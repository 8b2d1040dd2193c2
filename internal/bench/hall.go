package bench

import (
	"fmt"

	"github.com/roach88/motorbench/internal/timing"
)

// HallInput holds the raw inputs of the Hall sensor emulation.
type HallInput struct {
	PeriodNs int64
	StrobeNs int64
}

// Hall configures the Hall sensor simulator bench.
//
// Only positivity of the raw durations is checked. A strobe shorter than one
// clock period truncates to zero cycles and is accepted.
type Hall struct {
	base
	hallTiming
}

var _ Config = Hall{}

// hallTiming is the derived Hall sensor timing, shared with BLDCPWMHall.
type hallTiming struct {
	periodClk int64
	strobeClk int64
}

func newHallTiming(clock timing.ClockSpec, in HallInput) (hallTiming, error) {
	if err := checkPositive(ParamHallPeriodNs, in.PeriodNs); err != nil {
		return hallTiming{}, err
	}
	if err := checkPositive(ParamHallStrobeNs, in.StrobeNs); err != nil {
		return hallTiming{}, err
	}
	period, err := clock.CyclesFromPeriod(in.PeriodNs)
	if err != nil {
		return hallTiming{}, fmt.Errorf("%s: %w", ParamHallPeriodNs, err)
	}
	strobe, err := clock.CyclesFromPeriod(in.StrobeNs)
	if err != nil {
		return hallTiming{}, fmt.Errorf("%s: %w", ParamHallStrobeNs, err)
	}
	return hallTiming{periodClk: period, strobeClk: strobe}, nil
}

// HallPeriodClk returns the emulated sensor period in clock cycles.
func (h hallTiming) HallPeriodClk() int64 { return h.periodClk }

// HallStrobeDurationClk returns the strobe width in clock cycles.
func (h hallTiming) HallStrobeDurationClk() int64 { return h.strobeClk }

func (h hallTiming) validate() error {
	if err := checkNonNegative("hall_period_clk", h.periodClk); err != nil {
		return err
	}
	return checkNonNegative("hall_strobe_duration_clk", h.strobeClk)
}

func (h hallTiming) defines() []Define {
	return []Define{
		{Name: DefineHallPeriodClk, Value: h.periodClk},
		{Name: DefineHallStrobeDuration, Value: h.strobeClk},
	}
}

// NewHall derives and validates a Hall sensor configuration.
func NewHall(clock timing.ClockSpec, in HallInput) (Hall, error) {
	b, err := newBase(clock)
	if err != nil {
		return Hall{}, err
	}
	ht, err := newHallTiming(clock, in)
	if err != nil {
		return Hall{}, err
	}
	return Hall{base: b, hallTiming: ht}, nil
}

func (c Hall) Scenario() Scenario { return ScenarioHall }

func (c Hall) Validate() error { return c.hallTiming.validate() }

func (c Hall) Defines() []Define {
	return append([]Define{c.clockDefine()}, c.hallTiming.defines()...)
}
