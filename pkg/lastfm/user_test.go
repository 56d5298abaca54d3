package lastfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// newTestClient creates a client pointed at a test server with an unlimited
// rate limiter so tests do not wait on the token bucket.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIKey:  "test-api-key",
		BaseURL: serverURL,
		Limiter: rate.NewLimiter(rate.Inf, 1),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

const recentTracksOKResponse = `<?xml version="1.0" encoding="utf-8"?>
<lfm status="ok">
<recenttracks user="testuser" page="2" perPage="200" totalPages="3" total="520">
	<track nowplaying="true">
		<artist mbid="">Boards of Canada</artist>
		<name>Roygbiv</name>
		<album mbid="">Music Has the Right to Children</album>
		<url>https://www.last.fm/music/track/roygbiv</url>
	</track>
	<track>
		<artist mbid="mbid-1">Radiohead</artist>
		<name>Weird Fishes/Arpeggi</name>
		<mbid>track-mbid-1</mbid>
		<album mbid="album-mbid-1">In Rainbows</album>
		<url>https://www.last.fm/music/track/weird-fishes</url>
		<date uts="1704103200">01 Jan 2024, 10:00</date>
	</track>
	<track>
		<artist mbid="">Autechre</artist>
		<name>Bike</name>
		<album mbid="">Incunabula</album>
		<url>https://www.last.fm/music/track/bike</url>
		<date uts="1704099600">01 Jan 2024, 09:00</date>
	</track>
</recenttracks>
</lfm>`

func TestUserService_RecentTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET request, got %s", r.Method)
		}

		q := r.URL.Query()
		if method := q.Get("method"); method != "user.getrecenttracks" {
			t.Errorf("expected method user.getrecenttracks, got %s", method)
		}
		if user := q.Get("user"); user != "testuser" {
			t.Errorf("expected user testuser, got %s", user)
		}
		if apiKey := q.Get("api_key"); apiKey != "test-api-key" {
			t.Errorf("expected api_key test-api-key, got %s", apiKey)
		}
		if limit := q.Get("limit"); limit != "200" {
			t.Errorf("expected limit 200, got %s", limit)
		}
		if page := q.Get("page"); page != "2" {
			t.Errorf("expected page 2, got %s", page)
		}
		if from := q.Get("from"); from != "1700000000" {
			t.Errorf("expected from 1700000000, got %s", from)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(recentTracksOKResponse))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	page, err := client.User().RecentTracks(context.Background(), RecentTracksParams{
		User: "testuser",
		Page: 2,
		From: time.Unix(1700000000, 0),
	})
	if err != nil {
		t.Fatalf("RecentTracks: %v", err)
	}

	if page.Page != 2 {
		t.Errorf("expected page 2, got %d", page.Page)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected totalPages 3, got %d", page.TotalPages)
	}
	if page.Total != 520 {
		t.Errorf("expected total 520, got %d", page.Total)
	}
	if len(page.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(page.Tracks))
	}

	// First row is the synthetic now-playing track with no timestamp
	if !page.Tracks[0].NowPlaying {
		t.Error("expected first track to be now playing")
	}
	if !page.Tracks[0].Timestamp.IsZero() {
		t.Errorf("expected zero timestamp for now-playing row, got %v", page.Tracks[0].Timestamp)
	}

	second := page.Tracks[1]
	if second.Artist != "Radiohead" {
		t.Errorf("expected artist Radiohead, got %s", second.Artist)
	}
	if second.Track != "Weird Fishes/Arpeggi" {
		t.Errorf("expected track Weird Fishes/Arpeggi, got %s", second.Track)
	}
	if second.Album != "In Rainbows" {
		t.Errorf("expected album In Rainbows, got %s", second.Album)
	}
	if second.MBTrackID != "track-mbid-1" {
		t.Errorf("expected mbid track-mbid-1, got %s", second.MBTrackID)
	}
	want := time.Unix(1704103200, 0).UTC()
	if !second.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, second.Timestamp)
	}
}

func TestUserService_RecentTracks_Errors(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		statusCode  int
		wantFatal   bool
		errContains string
	}{
		{
			name: "unknown user",
			response: `<?xml version="1.0" encoding="utf-8"?>
<lfm status="failed">
	<error code="6">User not found</error>
</lfm>`,
			statusCode:  http.StatusOK,
			wantFatal:   true,
			errContains: "error 6",
		},
		{
			name: "invalid api key",
			response: `<?xml version="1.0" encoding="utf-8"?>
<lfm status="failed">
	<error code="10">Invalid API key</error>
</lfm>`,
			statusCode:  http.StatusOK,
			wantFatal:   true,
			errContains: "error 10",
		},
		{
			name:        "garbage response",
			response:    `this is not xml`,
			statusCode:  http.StatusOK,
			wantFatal:   false,
			errContains: "failed to parse XML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			_, err := client.User().RecentTracks(context.Background(), RecentTracksParams{User: "testuser"})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %v", tt.errContains, err)
			}
			if got := IsFatal(err); got != tt.wantFatal {
				t.Errorf("IsFatal = %v, want %v", got, tt.wantFatal)
			}
		})
	}
}

func TestUserService_RecentTracks_RetryOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(recentTracksOKResponse))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	page, err := client.User().RecentTracks(context.Background(), RecentTracksParams{User: "testuser"})
	if err != nil {
		t.Fatalf("RecentTracks after 429: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 requests, got %d", got)
	}
	if len(page.Tracks) != 3 {
		t.Errorf("expected 3 tracks after retry, got %d", len(page.Tracks))
	}
}

func TestUserService_RecentTracks_NoRetryOnFatal(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<lfm status="failed">
	<error code="10">Invalid API key</error>
</lfm>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.User().RecentTracks(context.Background(), RecentTracksParams{User: "testuser"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fatal errors must not be retried: got %d requests", got)
	}
}

func TestUserService_RecentTracks_RequiresUser(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")
	_, err := client.User().RecentTracks(context.Background(), RecentTracksParams{})
	if err == nil {
		t.Fatal("expected error for missing user")
	}
}

func TestClient_RateLimitSpacing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<lfm status="ok"><recenttracks user="u" page="1" perPage="200" totalPages="1" total="0"></recenttracks></lfm>`))
	}))
	defer server.Close()

	// Burst of 1 at 5/s: each request after the first must wait 200ms.
	client, err := NewClient(Config{
		APIKey:  "test-api-key",
		BaseURL: server.URL,
		Limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), 1),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	const requests = 4
	start := time.Now()
	for i := 0; i < requests; i++ {
		if _, err := client.User().RecentTracks(context.Background(), RecentTracksParams{User: "u"}); err != nil {
			t.Fatalf("RecentTracks %d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	minElapsed := time.Duration(requests-1) * (time.Second / RequestsPerSecond)
	if elapsed < minElapsed {
		t.Errorf("burst of %d requests finished in %v, limiter should enforce at least %v", requests, elapsed, minElapsed)
	}
}
