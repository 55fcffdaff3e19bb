package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fverse/salt/internal/ui"
)

var resolveForce bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Materialize submodules: clone if missing, fetch/checkout/pull otherwise",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		o, err := openOrchestrator(false)
		if err != nil {
			return err
		}
		reports, err := o.Resolve(cmd.Context(), name, resolveForce)
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
	resolveCmd.Flags().BoolVarP(&resolveForce, "force", "f", false, "accepted but has no effect: resolve does not check for uncommitted changes")
	rootCmd.AddCommand(resolveCmd)
}
