package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/motorbench/internal/bench"
	"github.com/roach88/motorbench/internal/invocation"
	"github.com/roach88/motorbench/internal/params"
	"github.com/roach88/motorbench/internal/runner"
	"github.com/roach88/motorbench/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ParamsFile   string
	Set          []string
	Interactive  bool
	Tool         string
	SourceDir    string
	TestbenchDir string
	SimDir       string
	DryRun       bool
	Database     string

	// Runner executes the rendered invocation (for testing).
	// If nil, defaults to runner.ExecRunner.
	Runner runner.Runner

	// IDs overrides the ledger run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.IDGenerator
}

// DefineView is one derived compile-time value in command output.
type DefineView struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Unit  string `json:"unit"`
}

// RunReport is the data payload of the run command.
type RunReport struct {
	RunID      string       `json:"run_id,omitempty"`
	Scenario   string       `json:"scenario"`
	Testbench  string       `json:"testbench"`
	Defines    []DefineView `json:"defines"`
	Invocation []string     `json:"invocation"`
	Output     string       `json:"output"`
	DryRun     bool         `json:"dry_run,omitempty"`
	ExitCode   int          `json:"exit_code"`
	Stdout     string       `json:"stdout,omitempty"`
	Stderr     string       `json:"stderr,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	layout := invocation.DefaultLayout()

	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Configure and compile a test bench",
		Long: `Collect the raw timing parameters for a scenario, derive the clock-cycle
defines, and compile the matching test bench with the simulator.

Values come from --set, then the --params file, then (with --interactive)
a prompt on stdin. The scenario may be given as an argument or in the
parameter file.

Example:
  motorbench run pwm --set clock_mhz=100 --set pwm_freq_hz=20000 \
      --set duty_a=1000 --set duty_b=2500 --set duty_c=4000
  motorbench run -p bench.yaml --db runs.db
  motorbench run hall --interactive --dry-run`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ParamsFile, "params", "p", "", "parameter file (.yaml, .yml or .cue)")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "set a parameter (name=value, repeatable)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "prompt for values not given elsewhere")
	cmd.Flags().StringVar(&opts.Tool, "tool", layout.Tool, "simulator compiler executable")
	cmd.Flags().StringVar(&opts.SourceDir, "src-dir", layout.SourceDir, "HDL include directory")
	cmd.Flags().StringVar(&opts.TestbenchDir, "testbench-dir", layout.TestbenchDir, "test bench directory")
	cmd.Flags().StringVar(&opts.SimDir, "sim-dir", layout.SimDir, "compiled output directory")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the invocation without running it")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite ledger")

	return cmd
}

func runBench(opts *RunOptions, args []string, cmd *cobra.Command) error {
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

	set, err := params.ParseAssignments(opts.Set)
	if err != nil {
		return formatter.Fail("invalid --set", err)
	}

	var file *params.File
	if opts.ParamsFile != "" {
		file, err = params.Load(opts.ParamsFile)
		if err != nil {
			return formatter.Fail("failed to load parameter file", err)
		}
		logger.Debug("parameter file loaded", "path", file.Path, "values", len(file.Values))
	}

	scenario, err := resolveScenario(args, file)
	if err != nil {
		return formatter.Fail("no scenario", err)
	}
	logger.Info("scenario selected", "scenario", scenario, "testbench", scenario.Testbench())

	sources := params.Chain{set}
	if file != nil {
		sources = append(sources, file)
	}
	if opts.Interactive {
		sources = append(sources, params.NewPrompt(cmd.InOrStdin(), promptWriter(opts, cmd)))
	}

	cfg, err := bench.Build(scenario, sources)
	if err != nil {
		return formatter.Fail("invalid configuration", err)
	}
	for _, d := range cfg.Defines() {
		logger.Debug("derived define", "name", d.Name, "value", d.Value)
	}

	layout := invocation.Layout{
		Tool:         opts.Tool,
		SourceDir:    opts.SourceDir,
		TestbenchDir: opts.TestbenchDir,
		SimDir:       opts.SimDir,
	}
	inv := invocation.Build(cfg, layout.PathsFor(scenario))
	logger.Info("invocation rendered", "command", inv.String())

	report := RunReport{
		Scenario:   scenario.String(),
		Testbench:  scenario.Testbench(),
		Defines:    defineViews(cfg),
		Invocation: inv.Tokens(),
		Output:     inv.OutputFile(),
		DryRun:     opts.DryRun,
	}
	if !formatter.isJSON() {
		printDerived(formatter, report)
	}

	var runErr error
	if !opts.DryRun {
		runErr = execute(opts, inv, &report)
		logger.Info("tool finished", "exit_code", report.ExitCode, "error", runErr)
	}

	if opts.Database != "" {
		id, err := recordRun(cmd.Context(), opts, cfg, report, runErr)
		if err != nil {
			_ = formatter.Error(ErrCodeLedger, fmt.Sprintf("failed to record run: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		report.RunID = id
		logger.Debug("run recorded", "id", id, "db", opts.Database)
	}

	return reportOutcome(formatter, report, runErr)
}

func resolveScenario(args []string, file *params.File) (bench.Scenario, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	if file != nil && file.Scenario != "" {
		if name != "" && name != file.Scenario {
			return "", fmt.Errorf("scenario %q conflicts with %q in %s", name, file.Scenario, file.Path)
		}
		name = file.Scenario
	}
	if name == "" {
		return "", fmt.Errorf("give a scenario argument or set scenario in the parameter file (one of %v)", bench.Scenarios())
	}
	return bench.ParseScenario(name)
}

// promptWriter keeps prompts off stdout when stdout carries JSON.
func promptWriter(opts *RunOptions, cmd *cobra.Command) io.Writer {
	if opts.Format == "json" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func execute(opts *RunOptions, inv invocation.Invocation, report *RunReport) error {
	r := opts.Runner
	if r == nil {
		r = runner.ExecRunner{}
	}

	res, err := r.Run(inv)
	if err == nil {
		err = runner.Check(res)
	}
	report.ExitCode = res.ExitCode
	report.Stdout = res.Stdout
	report.Stderr = res.Stderr
	return err
}

func recordRun(ctx context.Context, opts *RunOptions, cfg bench.Config, report RunReport, runErr error) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var storeOpts []store.Option
	if opts.IDs != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
	}
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	rec := store.RunRecord{
		Scenario:   report.Scenario,
		Invocation: report.Invocation,
		ExitCode:   report.ExitCode,
		Stdout:     report.Stdout,
		Stderr:     report.Stderr,
	}
	for _, d := range cfg.Defines() {
		rec.Defines = append(rec.Defines, d.String())
	}
	switch {
	case opts.DryRun:
		rec.Status = store.StatusDryRun
	case runErr == nil:
		rec.Status = store.StatusSuccess
	case runner.IsToolFailure(runErr):
		rec.Status = store.StatusFailed
	default:
		rec.Status = store.StatusError
		rec.Error = runErr.Error()
	}

	run, err := st.RecordRun(ctx, rec)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func reportOutcome(f *OutputFormatter, report RunReport, runErr error) error {
	var failure *runner.ToolFailure
	switch {
	case runErr == nil:
		if f.isJSON() {
			return f.Success(report)
		}
		if report.DryRun {
			fmt.Fprintln(f.Writer, "Dry run: invocation not executed.")
		} else {
			fmt.Fprintf(f.Writer, "✓ Compilation successful. Output: %s\n", report.Output)
		}
		if report.RunID != "" {
			fmt.Fprintf(f.Writer, "Run: %s\n", report.RunID)
		}
		return nil

	case errors.As(runErr, &failure):
		if f.isJSON() {
			_ = f.Error(ErrCodeToolFailure, failure.Error(), report)
		} else {
			fmt.Fprintln(f.Writer, "✗ Compilation failed.")
			fmt.Fprintln(f.Writer, "STDOUT:")
			fmt.Fprint(f.Writer, failure.Stdout)
			fmt.Fprintln(f.Writer, "STDERR:")
			fmt.Fprint(f.Writer, failure.Stderr)
			if report.RunID != "" {
				fmt.Fprintf(f.Writer, "Run: %s\n", report.RunID)
			}
		}
		return WrapExitError(ExitFailure, "compilation failed", runErr)

	default:
		_ = f.Error(ErrCodeToolStart, runErr.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to start tool", runErr)
	}
}

func defineViews(cfg bench.Config) []DefineView {
	defines := cfg.Defines()
	views := make([]DefineView, len(defines))
	for i, d := range defines {
		unit := "clk cycles"
		if d.Name == bench.DefineClockPeriodNs {
			unit = "ns"
		}
		views[i] = DefineView{Name: d.Name, Value: d.Value, Unit: unit}
	}
	return views
}

func printDerived(f *OutputFormatter, report RunReport) {
	p := f.Printer()
	fmt.Fprintf(f.Writer, "Scenario: %s (%s)\n", report.Scenario, report.Testbench)
	for _, d := range report.Defines {
		p.Fprintf(f.Writer, "  %s = %d [%s]\n", d.Name, d.Value, d.Unit)
	}
	fmt.Fprintln(f.Writer, "Compiling with:")
	fmt.Fprintf(f.Writer, "  %s\n", invocation.New(report.Invocation...).String())
}
