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

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent scrobbles from the local snapshot",
	RunE:  runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().StringP("user", "u", "", "Last.fm username (overrides config)")
	recentCmd.Flags().IntP("count", "n", 10, "Number of scrobbles to show")
}

func runRecent(cmd *cobra.Command, args []string) error {
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
	if len(scrobbles) == 0 {
		fmt.Printf("No scrobbles for %s yet. Run 'replay fetch' first.\n", user)
		return nil
	}

	count, _ := cmd.Flags().GetInt("count")
	set := history.NewSet(scrobbles)
	if count > 0 && len(set) > count {
		set = set[len(set)-count:]
	}

	// Newest first, matching how Last.fm presents recent plays
	for i := len(set) - 1; i >= 0; i-- {
		s := set[i]
		line := fmt.Sprintf("%s  %s - %s", s.Timestamp.Format("2006-01-02 15:04"), s.Artist, s.Track)
		if s.Album != "" {
			line += fmt.Sprintf(" (%s)", s.Album)
		}
		fmt.Println(line)
	}

	return nil
}
