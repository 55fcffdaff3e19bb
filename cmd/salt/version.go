package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print salt's version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("salt version " + version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
