/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jfmyers9/replay/internal/config"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure API key and username",
	Long: `Configure replay with your Last.fm API key and username.

This command will guide you through the setup process:
1. You'll be prompted to enter your Last.fm API key
2. You'll be prompted for the username whose history to fetch
3. Both are saved to your config file

You can get an API key from: https://www.last.fm/api/account/create
Fetching history only reads public data, so no API secret or user
authorization is needed.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("replay setup")
	fmt.Println("============")
	fmt.Println()
	fmt.Println("You can get an API key from: https://www.last.fm/api/account/create")
	fmt.Println()

	// Check if we already have a key
	if cfg.LastFM.APIKey != "" {
		fmt.Printf("Found existing API key: %s\n", cfg.LastFM.APIKey)
		fmt.Print("\nUse existing key? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			cfg.LastFM.APIKey = ""
		}
	}

	// Prompt for API key if not set
	if cfg.LastFM.APIKey == "" {
		fmt.Print("Enter your Last.fm API Key: ")
		apiKey, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		cfg.LastFM.APIKey = strings.TrimSpace(apiKey)
	}

	if cfg.LastFM.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	// Prompt for username
	prompt := "Enter the Last.fm username to fetch: "
	if cfg.User != "" {
		prompt = fmt.Sprintf("Enter the Last.fm username to fetch [%s]: ", cfg.User)
	}
	fmt.Print(prompt)
	user, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	user = strings.TrimSpace(user)
	if user != "" {
		cfg.User = user
	}

	if cfg.User == "" {
		return fmt.Errorf("username is required")
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath := config.GetConfigDir()
	fmt.Printf("\n✓ Configuration saved to %s/config.yaml\n", configPath)
	fmt.Println("\nYou can now run 'replay fetch' to download your history.")

	return nil
}
