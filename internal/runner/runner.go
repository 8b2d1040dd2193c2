// Package runner executes a rendered invocation and captures its outcome.
//
// Execution is synchronous: Run blocks until the external tool exits. There is
// no timeout and no retry. A non-zero exit status is returned as a
// *ToolFailure carrying both captured streams unmodified.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"

	"github.com/roach88/motorbench/internal/invocation"
)

// Result is the captured outcome of one process run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the tool exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes an invocation to completion.
type Runner interface {
	Run(inv invocation.Invocation) (Result, error)
}

// Func adapts a function to the Runner interface.
type Func func(inv invocation.Invocation) (Result, error)

// Run calls f(inv).
func (f Func) Run(inv invocation.Invocation) (Result, error) {
	return f(inv)
}

// ToolFailure reports a non-zero exit from the external tool.
type ToolFailure struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ToolFailure) Error() string {
	return fmt.Sprintf("external tool exited with status %d", e.ExitCode)
}

// IsToolFailure returns true if err is a ToolFailure.
// Uses errors.As to handle wrapped errors.
func IsToolFailure(err error) bool {
	var tf *ToolFailure
	return errors.As(err, &tf)
}

// Check returns a *ToolFailure for a non-zero result and nil otherwise.
// Runners that report exit codes without an error go through Check.
func Check(res Result) error {
	if res.Success() {
		return nil
	}
	return &ToolFailure{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}
}

// ExecRunner runs invocations as child processes.
type ExecRunner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Run starts the tool, waits for it, and captures stdout and stderr separately.
// A tool that cannot be started is returned as a wrapped error, not a
// ToolFailure.
func (r ExecRunner) Run(inv invocation.Invocation) (Result, error) {
	tool := inv.Tool()
	if tool == "" {
		return Result{}, errors.New("empty invocation")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(tool, inv.Args()...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, Check(res)
	}
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("running %s: %w", tool, err)
	}
	return res, nil
}
