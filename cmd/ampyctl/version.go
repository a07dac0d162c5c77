package main

import (
	"fmt"

	"github.com/deixis/ampyctl"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	// No config or board needed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(ampyctl.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
