// Package metrics derives read-only aggregates from a unified listening
// history: monthly activity, listening streaks, and artist rankings.
//
// Everything here is a pure function of the input Set. Aggregates are
// recomputed from scratch whenever the set changes, never updated
// incrementally.
package metrics

import (
	"sort"
	"time"

	"github.com/jfmyers9/replay/internal/history"
)

// MonthKeyFormat is the calendar month bucket key layout.
const MonthKeyFormat = "2006-01"

// MonthlyAggregate summarizes one calendar month of activity. Months with
// zero scrobbles are omitted, never emitted as zero rows.
type MonthlyAggregate struct {
	Month         string // Bucket key, e.g. "2024-01"
	Scrobbles     int    // Total plays in the month
	UniqueArtists int    // Distinct artist names
	UniqueAlbums  int    // Distinct (artist, album) pairs, empty albums excluded
}

// Streak is a maximal run of consecutive UTC calendar days that each contain
// at least one scrobble.
type Streak struct {
	Start time.Time // First day of the run (midnight UTC)
	End   time.Time // Last day of the run (midnight UTC)
	Days  int       // Length in days
}

// ArtistRanking is one row of the top-artist ranking.
type ArtistRanking struct {
	Artist      string    // Artist name, case preserved, no fuzzy merging
	Plays       int       // Total play count
	Rank        int       // 1-based rank
	FirstListen time.Time // Earliest scrobble of this artist
}

// Totals holds whole-history counters.
type Totals struct {
	Scrobbles      int
	UniqueArtists  int
	UniqueAlbums   int
	ActiveMonths   int
	MonthlyAverage float64 // Scrobbles / ActiveMonths; 0 for an empty history
}

// Report bundles every aggregate derived from one history Set. It is a
// read-only snapshot: consumers must not mutate the slices.
type Report struct {
	Totals     Totals
	Monthly    []MonthlyAggregate
	Streaks    []Streak
	TopArtists []ArtistRanking
}

// LongestStreak returns the longest streak in the report. Ties resolve to
// the most recent streak. The second return is false for an empty history.
func (r Report) LongestStreak() (Streak, bool) {
	var best Streak
	found := false
	for _, s := range r.Streaks {
		// Streaks are chronological, so >= picks the most recent on ties.
		if !found || s.Days >= best.Days {
			best = s
			found = true
		}
	}
	return best, found
}

// Compute derives the full metrics bundle from a unified history set.
//
// An empty set yields an empty Report, not an error.
func Compute(set history.Set) Report {
	return Report{
		Totals:     computeTotals(set),
		Monthly:    computeMonthly(set),
		Streaks:    computeStreaks(set),
		TopArtists: computeRanking(set),
	}
}

type albumKey struct {
	artist string
	album  string
}

func computeTotals(set history.Set) Totals {
	artists := make(map[string]struct{})
	albums := make(map[albumKey]struct{})
	months := make(map[string]struct{})

	for _, s := range set {
		artists[s.Artist] = struct{}{}
		if s.Album != "" {
			albums[albumKey{s.Artist, s.Album}] = struct{}{}
		}
		months[s.Timestamp.UTC().Format(MonthKeyFormat)] = struct{}{}
	}

	t := Totals{
		Scrobbles:     len(set),
		UniqueArtists: len(artists),
		UniqueAlbums:  len(albums),
		ActiveMonths:  len(months),
	}
	if t.ActiveMonths > 0 {
		t.MonthlyAverage = float64(t.Scrobbles) / float64(t.ActiveMonths)
	}
	return t
}

func computeMonthly(set history.Set) []MonthlyAggregate {
	type bucket struct {
		scrobbles int
		artists   map[string]struct{}
		albums    map[albumKey]struct{}
	}

	buckets := make(map[string]*bucket)
	for _, s := range set {
		key := s.Timestamp.UTC().Format(MonthKeyFormat)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				artists: make(map[string]struct{}),
				albums:  make(map[albumKey]struct{}),
			}
			buckets[key] = b
		}
		b.scrobbles++
		b.artists[s.Artist] = struct{}{}
		if s.Album != "" {
			b.albums[albumKey{s.Artist, s.Album}] = struct{}{}
		}
	}

	out := make([]MonthlyAggregate, 0, len(buckets))
	for key, b := range buckets {
		out = append(out, MonthlyAggregate{
			Month:         key,
			Scrobbles:     b.scrobbles,
			UniqueArtists: len(b.artists),
			UniqueAlbums:  len(b.albums),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func computeStreaks(set history.Set) []Streak {
	if len(set) == 0 {
		return nil
	}

	// Collect distinct active days. The set is sorted, but plays within a
	// day repeat, so dedup first.
	seen := make(map[time.Time]struct{})
	days := make([]time.Time, 0)
	for _, s := range set {
		day := civilDay(s.Timestamp)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var streaks []Streak
	start := days[0]
	prev := days[0]
	for _, day := range days[1:] {
		if day.Sub(prev) > 24*time.Hour {
			streaks = append(streaks, newStreak(start, prev))
			start = day
		}
		prev = day
	}
	streaks = append(streaks, newStreak(start, prev))
	return streaks
}

func newStreak(start, end time.Time) Streak {
	return Streak{
		Start: start,
		End:   end,
		Days:  int(end.Sub(start)/(24*time.Hour)) + 1,
	}
}

// civilDay truncates an instant to midnight UTC of its calendar day.
func civilDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func computeRanking(set history.Set) []ArtistRanking {
	type stat struct {
		plays int
		first time.Time
	}

	stats := make(map[string]*stat)
	for _, s := range set {
		st, ok := stats[s.Artist]
		if !ok {
			stats[s.Artist] = &stat{plays: 1, first: s.Timestamp}
			continue
		}
		st.plays++
		if s.Timestamp.Before(st.first) {
			st.first = s.Timestamp
		}
	}

	out := make([]ArtistRanking, 0, len(stats))
	for artist, st := range stats {
		out = append(out, ArtistRanking{
			Artist:      artist,
			Plays:       st.plays,
			FirstListen: st.first,
		})
	}

	// Descending by play count; ties go to the earliest first listen, then
	// name, so the ordering is deterministic.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Plays != out[j].Plays {
			return out[i].Plays > out[j].Plays
		}
		if !out[i].FirstListen.Equal(out[j].FirstListen) {
			return out[i].FirstListen.Before(out[j].FirstListen)
		}
		return out[i].Artist < out[j].Artist
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
