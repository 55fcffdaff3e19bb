package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fverse/salt/internal/orchestrator"
	"github.com/fverse/salt/internal/ui"
)

var (
	removeDeleteFiles bool
	removeForce       bool
	removeDryRun      bool
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a submodule from salt.conf, state, and the hidden clone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := openOrchestrator(false)
		if err != nil {
			return err
		}

		if removeDeleteFiles && !removeForce && !removeDryRun && ui.IsTerminal() {
			if !ui.PromptYesNo(fmt.Sprintf("delete %s's files permanently?", args[0]), false) {
				fmt.Println("aborted")
				return nil
			}
		}

		plan, err := o.Remove(cmd.Context(), args[0], orchestrator.RemoveOptions{
			DeleteFiles: removeDeleteFiles,
			Force:       removeForce,
			DryRun:      removeDryRun,
		})
		if err != nil {
			return err
		}

		if quiet {
			return nil
		}
		verb := "removed"
		if removeDryRun {
			verb = "would remove"
		}
		fmt.Printf("%s %s: hidden clone at %s", verb, plan.Name, plan.CloneDir)
		if plan.DeletedFiles {
			fmt.Printf(", files at %s", plan.Path)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeDeleteFiles, "delete-files", false, "also delete the flat copy at path")
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "skip the uncommitted-changes guard")
	removeCmd.Flags().BoolVar(&removeDryRun, "dry-run", false, "print what would be removed without changing anything")
	rootCmd.AddCommand(removeCmd)
}
