package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stagelink",
	Short: "stagelink serves editable pages with shareable preview snapshots",
	Long: `stagelink serves a statically defined page, captures in-place edits of its
designated regions, and publishes them as immutable preview snapshots that
viewers can inspect through shareable links without touching the live page.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "stagelink.yaml", "Path to the configuration file")
}
