package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/motorbench/internal/bench"
	"github.com/roach88/motorbench/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Scenario string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with run --db, oldest first.

Examples:
  motorbench history --db runs.db
  motorbench history --db runs.db --scenario hall --limit 5
  motorbench history --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only runs of this scenario")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "only the most recent N runs")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Scenario != "" {
		if _, err := bench.ParseScenario(opts.Scenario); err != nil {
			return formatter.Fail("invalid --scenario", err)
		}
	}

	st, err := store.OpenExisting(opts.Database)
	if errors.Is(err, store.ErrNoLedger) {
		return formatter.Fail("no such ledger", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, fmt.Sprintf("failed to open database: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), store.Filter{Scenario: opts.Scenario, Limit: opts.Limit})
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, fmt.Sprintf("failed to list runs: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	formatter.VerboseLog("Read %d run(s) from %s", len(runs), opts.Database)

	if formatter.isJSON() {
		if runs == nil {
			runs = []store.Run{}
		}
		return formatter.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tSCENARIO\tSTATUS\tEXIT\tFINGERPRINT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			r.Seq, r.ID, r.Scenario, r.Status, r.ExitCode, shortFingerprint(r.Fingerprint))
	}
	return tw.Flush()
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
