package lastfm

import (
	"time"
)

// RecentTrack represents a single play in a user's listening history.
type RecentTrack struct {
	Artist     string    // Artist name
	Track      string    // Track name
	Album      string    // Album name (may be empty)
	URL        string    // Last.fm track URL
	MBTrackID  string    // MusicBrainz track ID (may be empty)
	Timestamp  time.Time // When the track was played (UTC); zero for now-playing rows
	NowPlaying bool      // True for the synthetic now-playing row, which has no timestamp
}

// RecentTracksPage represents one page of the user.getRecentTracks response.
//
// Tracks appear in wire order, newest first.
type RecentTracksPage struct {
	User       string        // User the history belongs to
	Page       int           // 1-based page number
	PerPage    int           // Page size used by the server
	TotalPages int           // Total number of pages for the query
	Total      int           // Total number of scrobbles for the query
	Tracks     []RecentTrack // Tracks on this page, newest first
}

// RecentTracksParams holds the parameters for user.getRecentTracks.
type RecentTracksParams struct {
	User  string    // Required: Last.fm username
	Page  int       // Optional: page number (defaults to 1)
	Limit int       // Optional: results per page, max 200 (defaults to MaxPageSize)
	From  time.Time // Optional: only fetch plays strictly after this instant
	To    time.Time // Optional: only fetch plays before this instant
}
