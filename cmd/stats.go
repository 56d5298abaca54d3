/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/jfmyers9/replay/internal/cache"
	"github.com/jfmyers9/replay/internal/config"
	"github.com/jfmyers9/replay/internal/history"
	"github.com/jfmyers9/replay/internal/metrics"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show listening statistics from the local snapshot",
	Long: `Compute and print listening statistics from the local snapshot:
overall totals, monthly activity, listening streaks, and the
top-artist ranking.

Statistics are derived entirely from the snapshot; run 'replay fetch'
first to bring it up to date.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("user", "u", "", "Last.fm username (overrides config)")
	statsCmd.Flags().IntP("top", "t", 0, "Number of artists in the ranking (overrides config)")
	statsCmd.Flags().IntP("months", "m", 12, "Number of recent months to show (0 = all)")
}

func runStats(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("failed to load snapshot (try 'replay fetch' or 'replay fetch --full'): %w", err)
	}
	if len(scrobbles) == 0 {
		fmt.Printf("No scrobbles for %s yet. Run 'replay fetch' first.\n", user)
		return nil
	}

	report := metrics.Compute(history.NewSet(scrobbles))

	top, _ := cmd.Flags().GetInt("top")
	if top <= 0 {
		top = cfg.TopArtists
	}
	months, _ := cmd.Flags().GetInt("months")

	printOverview(user, report)
	printMonthly(report, months)
	printTopArtists(report, top)

	return nil
}

func printOverview(user string, report metrics.Report) {
	t := report.Totals
	fmt.Printf("Listening history for %s\n", user)
	fmt.Println(strings.Repeat("=", 22+runewidth.StringWidth(user)))
	fmt.Printf("Scrobbles:       %d\n", t.Scrobbles)
	fmt.Printf("Unique artists:  %d\n", t.UniqueArtists)
	fmt.Printf("Unique albums:   %d\n", t.UniqueAlbums)
	fmt.Printf("Active months:   %d\n", t.ActiveMonths)
	fmt.Printf("Monthly average: %.1f\n", t.MonthlyAverage)

	if streak, ok := report.LongestStreak(); ok {
		fmt.Printf("Longest streak:  %d day(s) (%s to %s)\n",
			streak.Days,
			streak.Start.Format("2006-01-02"),
			streak.End.Format("2006-01-02"))
	}
	fmt.Println()
}

func printMonthly(report metrics.Report, months int) {
	rows := report.Monthly
	if months > 0 && len(rows) > months {
		rows = rows[len(rows)-months:]
	}

	fmt.Println("Monthly activity")
	fmt.Printf("%-9s %10s %10s %10s\n", "Month", "Scrobbles", "Artists", "Albums")
	for _, m := range rows {
		fmt.Printf("%-9s %10d %10d %10d\n", m.Month, m.Scrobbles, m.UniqueArtists, m.UniqueAlbums)
	}
	fmt.Println()
}

func printTopArtists(report metrics.Report, top int) {
	rows := report.TopArtists
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	// Artist names can contain wide characters, so pad by display width
	nameWidth := runewidth.StringWidth("Artist")
	for _, r := range rows {
		if w := runewidth.StringWidth(r.Artist); w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Println("Top artists")
	fmt.Printf("%4s  %s %8s  %s\n", "#", padToWidth("Artist", nameWidth), "Plays", "First listen")
	for _, r := range rows {
		fmt.Printf("%4d  %s %8d  %s\n",
			r.Rank,
			padToWidth(r.Artist, nameWidth),
			r.Plays,
			r.FirstListen.Format("2006-01-02"))
	}
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		truncated := runewidth.Truncate(text, width-ellipsisWidth, "")
		result := truncated + ellipsis

		if resultWidth := runewidth.StringWidth(result); resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	}

	if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text
}
