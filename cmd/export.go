/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/jfmyers9/replay/internal/cache"
	"github.com/jfmyers9/replay/internal/config"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the local snapshot to a CSV file",
	Long: `Write the local snapshot to a CSV file.

The output uses the same format as the snapshot itself (artist, album,
track, timestamp, duration) and can be re-imported with 'replay import'.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("user", "u", "", "Last.fm username (overrides config)")
	exportCmd.Flags().StringP("out", "o", "", "Output file path (required)")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	user, err := resolveUser(cmd, cfg)
	if err != nil {
		return err
	}

	scrobbles, err := cache.NewStore(cfg.SnapshotPath(user)).Load()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	out, _ := cmd.Flags().GetString("out")
	if err := cache.NewStore(out).Save(scrobbles); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("Exported %d scrobbles to %s\n", len(scrobbles), out)
	return nil
}
