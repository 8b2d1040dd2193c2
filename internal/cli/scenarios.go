package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/motorbench/internal/bench"
)

// ScenarioInfo describes one scenario in command output.
type ScenarioInfo struct {
	Name      string      `json:"name"`
	Testbench string      `json:"testbench"`
	Params    []ParamInfo `json:"params"`
	Defines   []string    `json:"defines"`
}

// ParamInfo describes one raw input.
type ParamInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// NewScenariosCommand creates the scenarios command.
func NewScenariosCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the available test bench scenarios",
		Long: `List every scenario with its test bench, the raw parameters it reads
and the defines it passes to the compiler, in order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, cmd)
		},
	}
}

func runScenarios(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	infos := describeScenarios()
	if formatter.isJSON() {
		return formatter.Success(infos)
	}

	w := cmd.OutOrStdout()
	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", info.Name, info.Testbench)
		for _, p := range info.Params {
			fmt.Fprintf(w, "  %-18s %s [%s]\n", p.Name, p.Label, p.Unit)
		}
		fmt.Fprintf(w, "  defines: %s\n", strings.Join(info.Defines, ", "))
	}
	return nil
}

func describeScenarios() []ScenarioInfo {
	var infos []ScenarioInfo
	for _, s := range bench.Scenarios() {
		info := ScenarioInfo{
			Name:      s.String(),
			Testbench: s.Testbench(),
			Defines:   s.DefineNames(),
		}
		for _, p := range s.Params() {
			info.Params = append(info.Params, ParamInfo{Name: p.Name, Label: p.Label, Unit: p.Unit})
		}
		infos = append(infos, info)
	}
	return infos
}
