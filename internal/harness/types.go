package harness

import "fmt"

// Outcome names how a case ended.
type Outcome string

const (
	OutcomeCompiled    Outcome = "compiled"     // tool exited 0
	OutcomeToolFailure Outcome = "tool_failure" // tool exited non-zero
	OutcomeRejected    Outcome = "rejected"     // construction failed, tool never ran
)

// Result is the outcome of running one case.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	Outcome Outcome `json:"outcome"`

	// Defines are the derived NAME=value strings, empty when rejected.
	Defines []string `json:"defines,omitempty"`

	// Invocation is the rendered command line, empty when rejected.
	Invocation []string `json:"invocation,omitempty"`

	// Err is the construction or tool error, if any.
	Err error `json:"-"`

	// Errors lists every failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
