package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fverse/salt/internal/ui"
)

var (
	pullCI       bool
	pullParallel bool
)

var pullCmd = &cobra.Command{
	Use:   "pull [name]",
	Short: "Fast-forward the hidden clone on its current branch",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		o, err := openOrchestrator(pullCI)
		if err != nil {
			return err
		}
		reports, err := o.Pull(cmd.Context(), name)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Println(ui.RenderReports(reports, useColor()))
		}
		return firstFatal(reports)
	},
}

func init() {
	pullCmd.Flags().BoolVar(&pullCI, "ci", false, "fail fast on the first fatal error")
	// --parallel is accepted for forward compatibility and is a no-op,
	// per spec.md §5.
	pullCmd.Flags().BoolVar(&pullParallel, "parallel", false, "reserved for future use; currently a no-op")
	rootCmd.AddCommand(pullCmd)
}
