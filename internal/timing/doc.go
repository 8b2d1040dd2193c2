// Package timing converts physical timing quantities into whole clock cycles.
//
// Every conversion uses truncating integer division. Fractional cycles are
// discarded, never rounded, because the bench sources compile these values as
// integer constants:
//
//	clk := timing.MustClockSpecMHz(100)           // PeriodNs == 10
//	pwm, _ := timing.CyclesFromFrequencyRatio(clk.FrequencyHz, 20_000) // 5000
//	hall, _ := timing.CyclesFromPeriod(1_000_000, clk.PeriodNs)         // 100000
//
// A non-positive divisor is reported as ErrDivideByZero.
package timing
