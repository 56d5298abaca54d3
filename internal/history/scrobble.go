// Package history holds the domain model for a user's listening history:
// the Scrobble record, its identity tuple, and the unified time-ordered Set
// produced by merging cached and freshly fetched records.
package history

import (
	"sort"
	"time"
)

// Scrobble is a single logged play event.
type Scrobble struct {
	Artist    string        // Artist name, case preserved
	Album     string        // Album name (may be empty)
	Track     string        // Track name
	Timestamp time.Time     // When the play was logged (UTC)
	Duration  time.Duration // Track duration, zero when unknown
}

// Identity is the dedup key for a scrobble. The recent-tracks endpoint
// provides no persistent scrobble ID, so (artist, track, timestamp) is the
// closest thing to one. Timestamps are compared at second granularity, the
// resolution of the wire format.
type Identity struct {
	Artist string
	Track  string
	Unix   int64
}

// Identity returns the scrobble's dedup key.
func (s Scrobble) Identity() Identity {
	return Identity{Artist: s.Artist, Track: s.Track, Unix: s.Timestamp.Unix()}
}

// Set is a unified, deduplicated listening history, always sorted ascending
// by timestamp. Sets are treated as immutable once built: consumers must not
// modify the backing slice.
type Set []Scrobble

// NewSet builds a Set from arbitrary records: duplicates (by identity tuple)
// collapse to the first occurrence and the result is sorted.
func NewSet(scrobbles []Scrobble) Set {
	seen := make(map[Identity]struct{}, len(scrobbles))
	out := make(Set, 0, len(scrobbles))
	for _, s := range scrobbles {
		id := s.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, s)
	}
	out.sortAscending()
	return out
}

// Merge reconciles a cached snapshot with freshly fetched records into a
// single unified Set.
//
// On identity collisions the cached copy wins: the API is authoritative only
// for records not already cached, which keeps the snapshot stable when
// upstream metadata is edited. Records present in cache but no longer
// returned by the API are retained rather than silently dropped.
//
// Merge is idempotent: merging the same fetched batch twice yields the same
// Set.
func Merge(cached, fetched []Scrobble) Set {
	seen := make(map[Identity]struct{}, len(cached)+len(fetched))
	out := make(Set, 0, len(cached)+len(fetched))

	for _, s := range cached {
		id := s.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, s)
	}

	for _, s := range fetched {
		id := s.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, s)
	}

	out.sortAscending()
	return out
}

// Newest returns the timestamp of the most recent scrobble, or the zero time
// for an empty set.
func (s Set) Newest() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Timestamp
}

// sortAscending orders the set by timestamp, with artist and track as
// deterministic tie-breakers for plays logged in the same second.
func (s Set) sortAscending() {
	sort.SliceStable(s, func(i, j int) bool {
		if !s[i].Timestamp.Equal(s[j].Timestamp) {
			return s[i].Timestamp.Before(s[j].Timestamp)
		}
		if s[i].Artist != s[j].Artist {
			return s[i].Artist < s[j].Artist
		}
		return s[i].Track < s[j].Track
	})
}
