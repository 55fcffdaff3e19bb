package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fverse/salt/internal/ui"
)

var (
	syncForce bool
	syncCI    bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [name]",
	Short: "Check out and pull the branch the parent repository currently maps to",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		o, err := openOrchestrator(syncCI)
		if err != nil {
			return err
		}
		reports, err := o.Sync(cmd.Context(), name, syncForce)
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
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "sync even with uncommitted local changes")
	syncCmd.Flags().BoolVar(&syncCI, "ci", false, "fail fast on the first fatal error")
	rootCmd.AddCommand(syncCmd)
}
