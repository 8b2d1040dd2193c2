// Package harness runs table-driven bench cases described in YAML files.
//
// A case names a scenario, the raw parameter values, an optional scripted
// reply from the simulator, and what should come out: the define list in
// render order, the output artifact, or the kind of error. The harness runs
// the case through the same path as the run command (bench.Build,
// invocation.Build, a runner) with the simulator replaced by the scripted
// reply, so cases never need iverilog installed.
//
// Example case:
//
//	name: pwm_duty_at_period
//	description: duty equal to the PWM period is rejected
//	scenario: pwm
//	params:
//	  clock_mhz: 100
//	  pwm_freq_hz: 20000
//	  duty_a: 5000
//	  duty_b: 0
//	  duty_c: 0
//	expect:
//	  error:
//	    kind: invalid_parameter
//	    field: duty_a
//	    range: "[0,5000)"
//
// Results can also be compared against golden snapshots of the rendered
// invocation: RunWithGolden from go test, or CompareGolden and WriteGolden
// from the motorbench test command.
package harness
