package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagelink/stagelink/internal/config"
	"github.com/stagelink/stagelink/internal/presentation/tui"
	"github.com/stagelink/stagelink/pkg/snapshot"
)

var showCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Inspect a stored snapshot",
	Long:  `Loads a snapshot from the configured blob store and prints its field edits for operator inspection.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		blobs, err := newBlobStore(cfg)
		if err != nil {
			return err
		}

		store := snapshot.NewStore(blobs)
		snap, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load snapshot %s: %w", args[0], err)
		}

		var md strings.Builder
		fmt.Fprintf(&md, "# Snapshot %s\n\n", snap.ID)
		for _, edit := range snap.Edits {
			fmt.Fprintf(&md, "## %s\n\n%s\n\n", edit.ID, edit.Text)
		}

		render := tui.NewRenderer()
		out, err := render(md.String())
		if err != nil {
			// Fall back to the raw markdown if the terminal renderer chokes.
			out = md.String()
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
