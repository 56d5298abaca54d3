/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Last.fm listening history dashboard pipeline",
	Long: `replay fetches a Last.fm user's scrobble history, keeps a local
CSV snapshot so repeat runs only fetch what is new, and computes
listening statistics from the unified history: monthly activity,
listening streaks, and top-artist rankings.

Fetching respects the Last.fm rate ceiling of 5 requests per second
and degrades to the last known snapshot when the API is unavailable.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags can be added here if needed
}
