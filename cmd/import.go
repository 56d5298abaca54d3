/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/jfmyers9/replay/internal/cache"
	"github.com/jfmyers9/replay/internal/config"
	"github.com/jfmyers9/replay/internal/history"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge a CSV export into the local snapshot",
	Long: `Merge scrobbles from a CSV file into the local snapshot.

The file must use the snapshot format (artist, album, track,
timestamp, duration), such as one produced by 'replay export'.
Records already in the snapshot win over imported duplicates.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("user", "u", "", "Last.fm username (overrides config)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	user, err := resolveUser(cmd, cfg)
	if err != nil {
		return err
	}

	imported, err := cache.NewStore(args[0]).Load()
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	if len(imported) == 0 {
		return fmt.Errorf("import file %s contains no scrobbles", args[0])
	}

	store := cache.NewStore(cfg.SnapshotPath(user))
	cached, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	merged := history.Merge(cached, imported)
	if err := store.Save(merged); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Printf("Imported %d scrobbles, snapshot now holds %d (%d new).\n",
		len(imported), len(merged), len(merged)-len(cached))
	return nil
}
