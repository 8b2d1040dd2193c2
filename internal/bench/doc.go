// Package bench holds the validated parameter sets for each simulation test bench.
//
// A Config is built once from a timing.ClockSpec plus the scenario's raw
// physical inputs. Construction derives every cycle count, validates it, and
// either returns a frozen value or fails without building anything:
//
//	clk := timing.MustClockSpecMHz(100)
//	cfg, err := bench.NewPWM(clk, bench.PWMInput{PWMFreqHz: 20_000, DutyA: 100, DutyB: 2500, DutyC: 4999})
//
// # Scenarios
//
//   - pwm: three-phase PWM generator with an independent duty per phase.
//   - hall: Hall sensor emulation (period and strobe width).
//   - bldc: open-loop BLDC commutation on a fixed step timer.
//   - bldc-pwm: open-loop commutation with one PWM duty shared by every phase.
//   - bldc-pwm-hall: PWM commutation driven by the emulated Hall sensor, so no
//     step timer is derived.
//
// Defines returns the compile-time constants of a Config in the fixed order the
// bench sources expect.
package bench
