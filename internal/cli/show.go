package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/motorbench/internal/invocation"
	"github.com/roach88/motorbench/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult is the data payload of the show command.
type ShowResult struct {
	store.Run
	// SameConfiguration lists other runs sharing this run's fingerprint.
	SameConfiguration []string `json:"same_configuration"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a recorded run",
		Long: `Print one recorded run: its invocation, derived defines, outcome and the
captured compiler output.

Example:
  motorbench show --db runs.db 01932c4e-7f4a-7b1e-9a51-3f0c2d1e8a90`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := context.Background()

	st, err := store.OpenExisting(opts.Database)
	if errors.Is(err, store.ErrNoLedger) {
		return formatter.Fail("no such ledger", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, fmt.Sprintf("failed to open database: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.GetRun(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail("no such run", fmt.Errorf("%w: %s", err, id))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, fmt.Sprintf("failed to read run: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	siblings, err := st.RunsByFingerprint(ctx, run.Fingerprint)
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, fmt.Sprintf("failed to query fingerprint: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to query fingerprint", err)
	}
	formatter.VerboseLog("Fingerprint %s matches %d run(s)", run.Fingerprint, len(siblings))
	result := ShowResult{Run: run, SameConfiguration: []string{}}
	for _, s := range siblings {
		if s.ID != run.ID {
			result.SameConfiguration = append(result.SameConfiguration, s.ID)
		}
	}

	if formatter.isJSON() {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run:         %s (seq %d)\n", run.ID, run.Seq)
	fmt.Fprintf(w, "Scenario:    %s\n", run.Scenario)
	fmt.Fprintf(w, "Status:      %s (exit %d)\n", run.Status, run.ExitCode)
	fmt.Fprintf(w, "Fingerprint: %s\n", run.Fingerprint)
	fmt.Fprintf(w, "Invocation:  %s\n", invocation.New(run.Invocation...).String())
	if len(run.Defines) > 0 {
		fmt.Fprintf(w, "Defines:     %s\n", strings.Join(run.Defines, " "))
	}
	if run.Error != "" {
		fmt.Fprintf(w, "Error:       %s\n", run.Error)
	}
	if len(result.SameConfiguration) > 0 {
		fmt.Fprintf(w, "Same configuration: %s\n", strings.Join(result.SameConfiguration, ", "))
	}
	if run.Stdout != "" {
		fmt.Fprintln(w, "STDOUT:")
		fmt.Fprint(w, run.Stdout)
	}
	if run.Stderr != "" {
		fmt.Fprintln(w, "STDERR:")
		fmt.Fprint(w, run.Stderr)
	}
	return nil
}
