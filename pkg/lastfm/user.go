package lastfm

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"
)

// UserService provides read-only user data operations for the Last.fm API.
type UserService struct {
	client *Client
}

const (
	// MaxPageSize is the maximum number of tracks per page allowed by the API.
	MaxPageSize = 200
)

// RecentTracks fetches a single page of a user's listening history.
//
// Pages are returned in wire order, newest first. The returned page carries
// TotalPages so callers can walk the full history; see the page attributes on
// RecentTracksPage.
//
// Does not require authentication.
//
// Example:
//
//	page, err := client.User().RecentTracks(ctx, lastfm.RecentTracksParams{
//	    User: "some-user",
//	    Page: 1,
//	})
//	if err != nil {
//	    log.Printf("fetch failed: %v", err)
//	}
//	fmt.Printf("page %d of %d\n", page.Page, page.TotalPages)
func (s *UserService) RecentTracks(ctx context.Context, p RecentTracksParams) (*RecentTracksPage, error) {
	if p.User == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}

	limit := p.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}

	params := map[string]string{
		"user":  p.User,
		"limit": strconv.Itoa(limit),
		"page":  strconv.Itoa(page),
	}

	// The API treats from as exclusive, so a caller passing the newest cached
	// timestamp gets only plays it has not seen yet.
	if !p.From.IsZero() {
		params["from"] = strconv.FormatInt(p.From.Unix(), 10)
	}
	if !p.To.IsZero() {
		params["to"] = strconv.FormatInt(p.To.Unix(), 10)
	}

	resp, err := s.client.call(ctx, "user.getrecenttracks", params)
	if err != nil {
		return nil, err
	}

	result, err := unmarshalRecentTracks(resp)
	if err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse recent tracks response: %w", err)
	}

	return result, nil
}

// recentTracksResponse represents the XML response from user.getrecenttracks.
type recentTracksResponse struct {
	RecentTracks struct {
		User       string `xml:"user,attr"`
		Page       string `xml:"page,attr"`
		PerPage    string `xml:"perPage,attr"`
		TotalPages string `xml:"totalPages,attr"`
		Total      string `xml:"total,attr"`
		Tracks     []struct {
			NowPlaying string `xml:"nowplaying,attr"`
			Artist     struct {
				MBID string `xml:"mbid,attr"`
				Name string `xml:",chardata"`
			} `xml:"artist"`
			Name  string `xml:"name"`
			MBID  string `xml:"mbid"`
			Album struct {
				MBID string `xml:"mbid,attr"`
				Name string `xml:",chardata"`
			} `xml:"album"`
			URL  string `xml:"url"`
			Date struct {
				UTS  string `xml:"uts,attr"`
				Text string `xml:",chardata"`
			} `xml:"date"`
		} `xml:"track"`
	} `xml:"recenttracks"`
}

// unmarshalRecentTracks parses the XML response from user.getrecenttracks.
func unmarshalRecentTracks(data []byte) (*RecentTracksPage, error) {
	// Wrap inner XML in root element for proper unmarshaling
	wrapped := []byte("<root>" + string(data) + "</root>")

	var resp recentTracksResponse
	if err := xml.Unmarshal(wrapped, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recent tracks response: %w", err)
	}

	rt := resp.RecentTracks
	result := &RecentTracksPage{
		User:       rt.User,
		Page:       atoiDefault(rt.Page, 1),
		PerPage:    atoiDefault(rt.PerPage, 0),
		TotalPages: atoiDefault(rt.TotalPages, 1),
		Total:      atoiDefault(rt.Total, 0),
		Tracks:     make([]RecentTrack, 0, len(rt.Tracks)),
	}

	for _, t := range rt.Tracks {
		track := RecentTrack{
			Artist:     t.Artist.Name,
			Track:      t.Name,
			Album:      t.Album.Name,
			URL:        t.URL,
			MBTrackID:  t.MBID,
			NowPlaying: t.NowPlaying == "true",
		}

		// The now-playing row has no date element. Everything else does, and
		// the uts attribute is the authoritative UTC instant.
		if t.Date.UTS != "" {
			uts, err := strconv.ParseInt(t.Date.UTS, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid date uts %q: %w", t.Date.UTS, err)
			}
			track.Timestamp = time.Unix(uts, 0).UTC()
		}

		result.Tracks = append(result.Tracks, track)
	}

	return result, nil
}

// atoiDefault parses an attribute value, falling back when absent or invalid.
func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
