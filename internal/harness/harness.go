package harness

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/motorbench/internal/bench"
	"github.com/roach88/motorbench/internal/invocation"
	"github.com/roach88/motorbench/internal/params"
	"github.com/roach88/motorbench/internal/runner"
	"github.com/roach88/motorbench/internal/timing"
)

// Harness runs cases against a fixed directory layout.
type Harness struct {
	layout invocation.Layout
	logger *slog.Logger
}

// New creates a harness using the default layout and a discarding logger.
func New() *Harness {
	return &Harness{
		layout: invocation.DefaultLayout(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger returns a copy of h that logs case progress to logger.
func (h *Harness) WithLogger(logger *slog.Logger) *Harness {
	c := *h
	c.logger = logger
	return &c
}

// Run executes a case with the default harness.
func Run(c *Case) (*Result, error) {
	return New().Run(c)
}

// Run executes c and evaluates its expectations.
// The returned error is for cases that cannot run at all; expectation
// failures are reported in Result.Errors.
func (h *Harness) Run(c *Case) (*Result, error) {
	scenario, err := bench.ParseScenario(c.Scenario)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("running case", "name", c.Name, "scenario", scenario)

	result := NewResult()
	cfg, err := bench.Build(scenario, params.Map(c.Params))
	if err != nil {
		result.Outcome = OutcomeRejected
		result.Err = err
		h.evaluateError(c, result)
		return result, nil
	}

	for _, d := range cfg.Defines() {
		result.Defines = append(result.Defines, d.String())
	}
	inv := invocation.Build(cfg, h.layout.PathsFor(scenario))
	result.Invocation = inv.Tokens()

	reply := runner.Result{}
	if c.Tool != nil {
		reply = runner.Result{ExitCode: c.Tool.ExitCode, Stdout: c.Tool.Stdout, Stderr: c.Tool.Stderr}
	}
	scripted := runner.Func(func(invocation.Invocation) (runner.Result, error) {
		return reply, nil
	})
	res, err := scripted.Run(inv)
	if err == nil {
		err = runner.Check(res)
	}
	if err != nil {
		result.Outcome = OutcomeToolFailure
		result.Err = err
	} else {
		result.Outcome = OutcomeCompiled
	}
	h.logger.Debug("case finished", "name", c.Name, "outcome", result.Outcome)

	if want := c.Expect.Defines; len(want) > 0 && !slices.Equal(want, result.Defines) {
		result.AddError("defines: want [%s], got [%s]", strings.Join(want, " "), strings.Join(result.Defines, " "))
	}
	if want := c.Expect.Output; want != "" && want != inv.OutputFile() {
		result.AddError("output: want %s, got %s", want, inv.OutputFile())
	}
	h.evaluateError(c, result)
	return result, nil
}

func (h *Harness) evaluateError(c *Case, result *Result) {
	want := c.Expect.Error
	if want == nil {
		if result.Err != nil {
			result.AddError("unexpected error: %v", result.Err)
		}
		return
	}
	if result.Err == nil {
		result.AddError("expected %s error, got none", want.Kind)
		return
	}

	switch want.Kind {
	case ErrorInvalidParameter:
		var ipe *bench.InvalidParameterError
		if !errors.As(result.Err, &ipe) {
			result.AddError("expected invalid_parameter, got %v", result.Err)
			return
		}
		if ipe.Field != want.Field {
			result.AddError("invalid_parameter field: want %s, got %s", want.Field, ipe.Field)
		}
		if want.Range != "" && ipe.Range != want.Range {
			result.AddError("invalid_parameter range: want %s, got %s", want.Range, ipe.Range)
		}

	case ErrorDivideByZero:
		if !errors.Is(result.Err, timing.ErrDivideByZero) {
			result.AddError("expected divide_by_zero, got %v", result.Err)
		}

	case ErrorMissingParameter:
		var me *params.MissingError
		if !errors.As(result.Err, &me) {
			result.AddError("expected missing_parameter, got %v", result.Err)
			return
		}
		if me.Name != want.Field {
			result.AddError("missing_parameter: want %s, got %s", want.Field, me.Name)
		}

	case ErrorToolFailure:
		var tf *runner.ToolFailure
		if !errors.As(result.Err, &tf) {
			result.AddError("expected tool_failure, got %v", result.Err)
			return
		}
		if want.Stderr != "" && !strings.Contains(tf.Stderr, want.Stderr) {
			result.AddError("tool_failure stderr: want %q in %q", want.Stderr, tf.Stderr)
		}
	}
}
