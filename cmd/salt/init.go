package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/salterr"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty salt.conf in the current directory",
	Long: `Create an empty salt.conf in the current directory, so that
subsequent salt commands have somewhere to record submodules.

Unlike the other commands, init never walks upward looking for an
existing salt.conf: it always operates on the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path := filepath.Join(cwd, config.FileName)
		if fsutil.Exists(path) {
			return salterr.New(salterr.PathAlreadyExists, "salt.conf already exists in "+cwd)
		}
		if err := config.Save(cwd, config.New()); err != nil {
			return err
		}
		if err := fsutil.EnsureDir(filepath.Join(cwd, ".salt", "repos")); err != nil {
			return err
		}
		if !quiet {
			fmt.Println("created salt.conf")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
