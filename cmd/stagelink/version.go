package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagelink/stagelink"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stagelink",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stagelink version %s\n", stagelink.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
