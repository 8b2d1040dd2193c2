package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/motorbench/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // case name filter (glob pattern)
	GoldenDir string // defaults to <cases-dir>/../golden
}

// CaseResult holds the result of a single case.
type CaseResult struct {
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Outcome string   `json:"outcome,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <cases-dir>",
		Short: "Run bench cases",
		Long: `Run the YAML bench cases in a directory through the same path as the run
command, with the simulator replaced by each case's scripted reply.

Each case is checked against its expectations and, when one exists, against
its golden snapshot in the golden directory (by default a "golden" directory
next to the cases directory).

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid paths, unreadable cases, etc.)

Examples:
  motorbench test internal/harness/testdata/cases
  motorbench test ./cases --filter "pwm_*"
  motorbench test ./cases --update
  motorbench test ./cases --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by name (glob pattern)")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "golden snapshot directory")

	return cmd
}

func runTests(opts *TestOptions, casesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := opts.Logger
	if logger == nil {
		logger = newLogger(opts.Verbose, cmd.ErrOrStderr())
	}

	if _, err := os.Stat(casesDir); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("cases directory not found: %s", casesDir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("cases directory not found: %s", casesDir))
	}
	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = filepath.Join(filepath.Dir(filepath.Clean(casesDir)), "golden")
	}

	cases, err := harness.LoadCases(casesDir)
	if err != nil {
		return formatter.Fail("failed to load cases", err)
	}
	cases, err = filterCases(cases, opts.Filter)
	if err != nil {
		return formatter.Fail("invalid --filter", err)
	}
	formatter.VerboseLog("Loaded %d case(s) from %s", len(cases), casesDir)

	result := TestResult{
		Cases: make([]CaseResult, 0, len(cases)),
		Total: len(cases),
	}
	if len(cases) == 0 {
		if formatter.isJSON() {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "No cases found.")
		return nil
	}

	h := harness.New().WithLogger(logger)
	for _, c := range cases {
		cr := runCase(h, c, goldenDir, opts.Update)
		result.Cases = append(result.Cases, cr)
		if cr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !formatter.isJSON() {
			printCaseResult(formatter, cr, opts.Update)
		}
	}

	if formatter.isJSON() {
		if result.Failed > 0 {
			_ = formatter.Error(ErrCodeTestFailed, fmt.Sprintf("%d case(s) failed", result.Failed), result)
			return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
		}
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}

func filterCases(cases []*harness.Case, pattern string) ([]*harness.Case, error) {
	if pattern == "" {
		return cases, nil
	}
	kept := make([]*harness.Case, 0, len(cases))
	for _, c := range cases {
		matched, err := filepath.Match(pattern, c.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// runCase runs c, then checks or rewrites its golden snapshot.
// A case without a golden file is judged on its expectations alone.
func runCase(h *harness.Harness, c *harness.Case, goldenDir string, update bool) CaseResult {
	cr := CaseResult{Name: c.Name}

	result, err := h.Run(c)
	if err != nil {
		cr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return cr
	}
	cr.Outcome = string(result.Outcome)
	cr.Errors = result.Errors

	if update {
		if err := harness.WriteGolden(goldenDir, c, result); err != nil {
			cr.Errors = append(cr.Errors, err.Error())
			return cr
		}
		cr.Pass = result.Pass
		return cr
	}

	match, found, err := harness.CompareGolden(goldenDir, c, result)
	switch {
	case err != nil:
		cr.Errors = append(cr.Errors, fmt.Sprintf("golden comparison failed: %v", err))
	case found && !match:
		cr.Errors = append(cr.Errors, "snapshot does not match golden file (run with --update to regenerate)")
	default:
		cr.Pass = result.Pass
	}
	return cr
}

func printCaseResult(f *OutputFormatter, cr CaseResult, update bool) {
	if cr.Pass {
		if update {
			fmt.Fprintf(f.Writer, "✓ %s (golden updated)\n", cr.Name)
			return
		}
		fmt.Fprintf(f.Writer, "✓ %s\n", cr.Name)
		return
	}
	fmt.Fprintf(f.Writer, "✗ %s\n", cr.Name)
	for _, e := range cr.Errors {
		fmt.Fprintf(f.Writer, "  %s\n", e)
	}
}
