package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/motorbench/internal/bench"
	"github.com/roach88/motorbench/internal/params"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Scenario string
}

// ValidationError is one problem found in a parameter file.
type ValidationError struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FileValidation is the outcome for one valid parameter file.
type FileValidation struct {
	File     string       `json:"file"`
	Scenario string       `json:"scenario"`
	Defines  []DefineView `json:"defines"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  []FileValidation  `json:"files,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <params-file>...",
		Short: "Check parameter files without compiling",
		Long: `Load each parameter file, resolve its scenario and derive the defines,
reporting every file that would be rejected. Nothing is executed.

Files without a scenario key need --scenario.

Examples:
  motorbench validate benches/*.yaml
  motorbench validate --scenario hall hall.cue --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "scenario for files that do not name one")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true}
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		fv, verr := validateFile(path, opts.Scenario)
		if verr != nil {
			result.Valid = false
			result.Errors = append(result.Errors, *verr)
			continue
		}
		result.Files = append(result.Files, fv)
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func validateFile(path, scenarioFlag string) (FileValidation, *ValidationError) {
	fail := func(err error) *ValidationError {
		code, _ := classifyError(err)
		verr := &ValidationError{File: path, Code: code, Message: err.Error()}
		var ce *params.CUEError
		if errors.As(err, &ce) && ce.Pos.IsValid() {
			verr.Line = ce.Pos.Line()
			verr.Column = ce.Pos.Column()
			verr.Message = ce.Message
		}
		return verr
	}

	file, err := params.Load(path)
	if err != nil {
		return FileValidation{}, fail(err)
	}

	var args []string
	if scenarioFlag != "" {
		args = []string{scenarioFlag}
	}
	scenario, err := resolveScenario(args, file)
	if err != nil {
		return FileValidation{}, fail(err)
	}

	cfg, err := bench.Build(scenario, file)
	if err != nil {
		return FileValidation{}, fail(err)
	}
	return FileValidation{File: path, Scenario: scenario.String(), Defines: defineViews(cfg)}, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.isJSON() {
		return formatter.Success(result)
	}

	p := formatter.Printer()
	for _, f := range result.Files {
		fmt.Fprintf(formatter.Writer, "✓ %s (%s)\n", f.File, f.Scenario)
		for _, d := range f.Defines {
			p.Fprintf(formatter.Writer, "    %s = %d [%s]\n", d.Name, d.Value, d.Unit)
		}
	}
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.isJSON() {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", err.File, err.Line, err.Column)
		} else {
			fmt.Fprintln(formatter.Writer, err.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
