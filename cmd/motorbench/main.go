// Command motorbench configures and compiles motor-control HDL test benches.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/motorbench/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "motorbench:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
