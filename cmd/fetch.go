/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/replay/internal/cache"
	"github.com/jfmyers9/replay/internal/config"
	"github.com/jfmyers9/replay/internal/ingest"
	"github.com/jfmyers9/replay/pkg/lastfm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch scrobble history and update the local snapshot",
	Long: `Fetch a user's scrobble history from Last.fm.

The first run downloads the full history, paging at up to 200 tracks
per request and never exceeding 5 requests per second. Later runs only
fetch scrobbles newer than the local snapshot.

Fetched records are merged into the CSV snapshot; records already
cached always win over re-fetched copies, and history the API no
longer returns is retained. If a fetch fails partway, the pages
retrieved before the failure are still merged and saved.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("user", "u", "", "Last.fm username (overrides config)")
	fetchCmd.Flags().Bool("full", false, "Ignore the snapshot and re-fetch the full history")
	fetchCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	user, err := resolveUser(cmd, cfg)
	if err != nil {
		return err
	}

	if cfg.LastFM.APIKey == "" {
		return fmt.Errorf("no API key configured, run 'replay setup' first")
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	logger := setupLogger(logLevel)

	full, _ := cmd.Flags().GetBool("full")

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey: cfg.LastFM.APIKey,
		Logger: sdkLogger{logger: logger},
	})
	if err != nil {
		return fmt.Errorf("failed to create lastfm client: %w", err)
	}

	session := ingest.NewSession(
		ingest.SessionConfig{User: user, FullRefetch: full},
		ingest.NewFetcher(client, logger),
		cache.NewStore(cfg.SnapshotPath(user)),
		logger,
	)

	set, err := session.Run(context.Background())
	if err != nil {
		if len(set) > 0 {
			fmt.Fprintf(os.Stderr, "fetch incomplete: %v\n", err)
			fmt.Printf("Kept %d scrobbles from cache and partial fetch.\n", len(set))
			return nil
		}
		return err
	}

	fmt.Printf("Snapshot for %s now holds %d scrobbles.\n", user, len(set))
	return nil
}

// resolveUser picks the username from the flag or the config file.
func resolveUser(cmd *cobra.Command, cfg *config.Config) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		user = cfg.User
	}
	if user == "" {
		return "", fmt.Errorf("no username given, pass --user or run 'replay setup'")
	}
	return user, nil
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logLevel string) zerolog.Logger {
	// Parse log level
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	logger := zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	return logger
}

// sdkLogger bridges zerolog to the lastfm.Logger interface.
type sdkLogger struct {
	logger zerolog.Logger
}

func (l sdkLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
