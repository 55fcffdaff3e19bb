package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fverse/salt/internal/orchestrator"
)

var (
	addBranch  string
	addName    string
	addShallow bool
)

var addCmd = &cobra.Command{
	Use:   "add <url> [path]",
	Short: "Add a new submodule",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := openOrchestrator(false)
		if err != nil {
			return err
		}

		opts := orchestrator.AddOptions{
			URL:    args[0],
			Branch: addBranch,
			Name:   addName,
		}
		if len(args) == 2 {
			opts.Path = args[1]
		}
		opts.Shallow, opts.ShallowSet = resolveShallowFlag(cmd.Flags(), addShallow)

		s, err := o.Add(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("added %s at %s (branch %s)\n", s.Name, s.Path, s.DefaultBranch)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addBranch, "branch", "b", "", "branch to clone (default: main)")
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "submodule name (default: derived from URL)")
	addCmd.Flags().BoolVar(&addShallow, "shallow", true, "use a shallow (depth-1) clone")
	addCmd.Flags().Bool("no-shallow", false, "use a full clone")
	rootCmd.AddCommand(addCmd)
}

// resolveShallowFlag reconciles --shallow and its inverse --no-shallow,
// since AddOptions.ShallowSet must distinguish "neither flag passed"
// (use AddOptions' own default) from an explicit choice.
func resolveShallowFlag(flags *pflag.FlagSet, shallowValue bool) (shallow bool, set bool) {
	if flags.Changed("no-shallow") {
		noShallow, _ := flags.GetBool("no-shallow")
		return !noShallow, true
	}
	if flags.Changed("shallow") {
		return shallowValue, true
	}
	return false, false
}
