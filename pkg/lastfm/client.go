// Package lastfm provides a read-only client for the Last.fm API 2.0.
//
// This package implements the unauthenticated user data methods of the
// Last.fm API, primarily user.getRecentTracks. It is designed to be used
// as a standalone SDK.
//
// Example usage:
//
//	import "github.com/jfmyers9/replay/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey: "your-api-key",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := client.User().RecentTracks(ctx, lastfm.RecentTracksParams{
//	    User: "some-user",
//	})
package lastfm

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Config holds client configuration.
type Config struct {
	APIKey     string        // Required: Last.fm API key
	HTTPClient *http.Client  // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string        // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	Limiter    *rate.Limiter // Optional: request rate limiter (defaults to the process-wide limiter)
	Logger     Logger        // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Last.fm API operations.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     Logger

	user *UserService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// RequestsPerSecond is the documented Last.fm rate ceiling.
	RequestsPerSecond = 5
)

// sharedLimiter is the process-wide token bucket. Clients that do not supply
// their own limiter draw from this one, so concurrent sessions in the same
// process cooperatively stay under the upstream quota.
var sharedLimiter = rate.NewLimiter(rate.Limit(RequestsPerSecond), RequestsPerSecond)

// SharedLimiter returns the process-wide rate limiter used by default.
func SharedLimiter() *rate.Limiter {
	return sharedLimiter
}

// NewClient creates a new Last.fm API client.
//
// Returns an error if required configuration (APIKey) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("lastfm: APIKey is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = sharedLimiter
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    limiter,
		logger:     cfg.Logger,
	}

	c.user = &UserService{client: c}

	return c, nil
}

// User returns the user data service.
func (c *Client) User() *UserService {
	return c.user
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
