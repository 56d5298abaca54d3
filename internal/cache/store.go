// Package cache persists a user's listening history to a CSV snapshot so a
// session can avoid re-fetching the full history from the API.
package cache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jfmyers9/replay/internal/history"
)

// ErrCorrupt indicates the snapshot file exists but cannot be trusted. The
// caller should discard the cache and fall back to a full fetch.
var ErrCorrupt = errors.New("cache: corrupt snapshot")

// columns is the stable CSV column order.
var columns = []string{"artist", "album", "track", "timestamp", "duration"}

// Store reads and writes CSV snapshots of a listening history.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the previously persisted snapshot.
//
// A missing file is not an error: it returns an empty slice. A file that
// exists but cannot be parsed returns an error wrapping ErrCorrupt.
func (s *Store) Load() ([]history.Scrobble, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)

	header, err := r.Read()
	if err == io.EOF {
		// Zero-byte file, treat as empty snapshot
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", ErrCorrupt, err)
	}
	if !headerMatches(header) {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrCorrupt, header)
	}

	var scrobbles []history.Scrobble
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: bad row: %v", ErrCorrupt, err)
		}

		timestamp, err := time.Parse(time.RFC3339, row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q: %v", ErrCorrupt, row[3], err)
		}

		durationSecs, err := strconv.ParseInt(row[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad duration %q: %v", ErrCorrupt, row[4], err)
		}

		scrobbles = append(scrobbles, history.Scrobble{
			Artist:    row[0],
			Album:     row[1],
			Track:     row[2],
			Timestamp: timestamp.UTC(),
			Duration:  time.Duration(durationSecs) * time.Second,
		})
	}

	return scrobbles, nil
}

// Save durably writes the full record set, atomically.
//
// The snapshot is written to a temp file in the same directory, synced, and
// renamed over the old file so a concurrent reader never observes a partial
// write.
func (s *Store) Save(scrobbles []history.Scrobble) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	// Best-effort cleanup if anything below fails before the rename
	defer os.Remove(tmpPath)

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, scr := range scrobbles {
		row := []string{
			scr.Artist,
			scr.Album,
			scr.Track,
			scr.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatInt(int64(scr.Duration.Seconds()), 10),
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// headerMatches checks the stable column order sanity of a snapshot header.
func headerMatches(header []string) bool {
	if len(header) != len(columns) {
		return false
	}
	for i, col := range columns {
		if header[i] != col {
			return false
		}
	}
	return true
}
