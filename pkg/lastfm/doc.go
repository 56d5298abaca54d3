// Package lastfm provides a client library for the Last.fm API 2.0.
//
// # Overview
//
// This package implements a modern Go client for the read-only user data
// methods of the Last.fm API, focusing on listening history retrieval
// (user.getRecentTracks). It provides a clean, type-safe API with context
// support, proper error handling, built-in rate limiting, and retry logic.
//
// # Installation
//
//	go get github.com/jfmyers9/replay/pkg/lastfm
//
// # Quick Start
//
// Create a client with your API key:
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
// # Fetching Listening History
//
// History is paginated, up to 200 tracks per page, newest first:
//
//	page, err := client.User().RecentTracks(ctx, lastfm.RecentTracksParams{
//	    User: "some-user",
//	    Page: 1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, t := range page.Tracks {
//	    if t.NowPlaying {
//	        continue // synthetic row, no timestamp
//	    }
//	    fmt.Println(t.Timestamp, t.Artist, t.Track)
//	}
//
// Pass From to fetch only plays newer than a known instant:
//
//	page, err := client.User().RecentTracks(ctx, lastfm.RecentTracksParams{
//	    User: "some-user",
//	    From: lastSeen,
//	})
//
// # Rate Limiting
//
// Last.fm caps sustained throughput at 5 requests per second. All clients in
// a process share a single token bucket by default, so concurrent sessions
// cooperatively stay under the quota. A custom limiter can be supplied for
// testing:
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:  "your-api-key",
//	    Limiter: rate.NewLimiter(rate.Inf, 1),
//	})
//
// # Error Handling
//
// The package provides structured errors with retry information:
//
//	page, err := client.User().RecentTracks(ctx, params)
//	if err != nil {
//	    var lastfmErr *lastfm.Error
//	    if errors.As(err, &lastfmErr) {
//	        if lastfmErr.Fatal() {
//	            // Bad username or API key, do not retry
//	        }
//	    }
//	}
//
// Temporary errors (service offline, rate limit exceeded, network timeouts)
// are retried internally with exponential backoff before surfacing.
//
// # Context Support
//
// All API methods accept a context.Context for cancellation and timeouts:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	page, err := client.User().RecentTracks(ctx, params)
//
// # API Coverage
//
// Currently implemented:
//   - Listening history (user.getRecentTracks)
//
// # Last.fm API Documentation
//
// For more information about the Last.fm API:
// https://www.last.fm/api/show/user.getRecentTracks
package lastfm
