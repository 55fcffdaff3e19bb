// Command salt coordinates branch-aware, flattened copies of external
// Git repositories inside a parent repository, without Git submodules.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fverse/salt/internal/salterr"
	"github.com/fverse/salt/internal/ui"
)

var (
	quiet   bool
	verbose bool
)

// version is stamped at build time via -ldflags; "dev" otherwise.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "salt",
	Short:         "A branch-aware alternative to Git submodules",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Salt keeps flattened, branch-mapped copies of external Git
repositories inside a parent repository's working tree.

Each configured submodule is backed by a full Git working tree hidden
under .salt/repos/<name>; the parent tree only ever sees a plain,
.git-free copy of its files at the configured path. Branch selection
can follow the parent repository's current branch through a small
pattern language in salt.conf.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println("salt version " + version)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print additional detail")
	rootCmd.Flags().BoolP("version", "v", false, "print salt's version")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var se *salterr.Error
		if errors.As(err, &se) {
			os.Exit(se.ExitCode())
		}
		fmt.Fprintln(os.Stderr, ui.TableFailStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
