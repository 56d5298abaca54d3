package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Default Last.fm username to fetch history for
	User string

	// Directory where CSV snapshots are stored
	// Default: the config directory
	CacheDir string

	// Number of artists shown by the stats command
	TopArtists int

	// Last.fm API credentials
	LastFM LastFMConfig
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("cache_dir", configDir)
	v.SetDefault("top_artists", 10)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("REPLAY")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		User:       v.GetString("user"),
		CacheDir:   v.GetString("cache_dir"),
		TopArtists: v.GetInt("top_artists"),
		LastFM: LastFMConfig{
			APIKey: v.GetString("lastfm.api_key"),
		},
	}

	return cfg, nil
}

// SnapshotPath returns the CSV snapshot location for a user
func (c *Config) SnapshotPath(user string) string {
	return filepath.Join(c.CacheDir, user+".csv")
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "replay")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("user", c.User)
	v.Set("cache_dir", c.CacheDir)
	v.Set("top_artists", c.TopArtists)
	v.Set("lastfm.api_key", c.LastFM.APIKey)

	// Write to file
	return v.WriteConfigAs(configFile)
}
