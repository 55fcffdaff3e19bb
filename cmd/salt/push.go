package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fverse/salt/internal/orchestrator"
	"github.com/fverse/salt/internal/ui"
)

var (
	pushForce    bool
	pushAutoSync bool
	pushCI       bool
)

var pushCmd = &cobra.Command{
	Use:   "push [name]",
	Short: "Commit and push local changes from the flat copy into the hidden clone",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		o, err := openOrchestrator(pushCI)
		if err != nil {
			return err
		}
		reports, err := o.Push(cmd.Context(), name, orchestrator.PushOptions{
			Force:    pushForce,
			AutoSync: pushAutoSync,
		})
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
	pushCmd.Flags().BoolVarP(&pushForce, "force", "f", false, "push even if the source branch has changed")
	pushCmd.Flags().BoolVar(&pushAutoSync, "auto-sync", false, "sync before pushing when the submodule is stale")
	pushCmd.Flags().BoolVar(&pushCI, "ci", false, "fail fast on the first fatal error")
	rootCmd.AddCommand(pushCmd)
}
