package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jfmyers9/replay/internal/cache"
	"github.com/jfmyers9/replay/internal/history"
	"github.com/rs/zerolog"
)

// SessionConfig holds session parameters.
type SessionConfig struct {
	User        string // Last.fm username to fetch
	FullRefetch bool   // Ignore the cached snapshot and fetch everything
}

// Session runs one ingestion pass: load cache, fetch what is missing, merge,
// persist, and hand back the unified set.
type Session struct {
	config  SessionConfig
	fetcher *Fetcher
	store   *cache.Store
	logger  zerolog.Logger
}

// NewSession creates a Session.
func NewSession(cfg SessionConfig, fetcher *Fetcher, store *cache.Store, logger zerolog.Logger) *Session {
	return &Session{
		config:  cfg,
		fetcher: fetcher,
		store:   store,
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

// Run executes the session and returns the unified history set.
//
// Degradation rules:
//   - A corrupt snapshot is discarded with a warning and the session falls
//     back to a full fetch instead of crashing.
//   - A fetch failure merges and persists whatever pages arrived before the
//     failure, then surfaces the error with the best-known set, so the
//     dashboard can still render from last known data.
func (s *Session) Run(ctx context.Context) (history.Set, error) {
	cached, err := s.store.Load()
	switch {
	case errors.Is(err, cache.ErrCorrupt):
		s.logger.Warn().Err(err).Msg("Cached snapshot is corrupt, falling back to full fetch")
		cached = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	var since time.Time
	if !s.config.FullRefetch && len(cached) > 0 {
		since = history.NewSet(cached).Newest()
	}

	s.logger.Info().
		Str("user", s.config.User).
		Int("cached", len(cached)).
		Time("since", since).
		Msg("Starting ingestion")

	fetched, fetchErr := s.fetcher.FetchSince(ctx, s.config.User, since)

	merged := history.Merge(cached, fetched)

	// Persist partial work too: pages fetched before a failure are not
	// thrown away.
	if len(fetched) > 0 {
		if err := s.store.Save(merged); err != nil {
			if fetchErr != nil {
				s.logger.Error().Err(err).Msg("Failed to persist snapshot after fetch error")
				return merged, fetchErr
			}
			return merged, fmt.Errorf("failed to persist snapshot: %w", err)
		}
	}

	if fetchErr != nil {
		s.logger.Warn().
			Err(fetchErr).
			Int("merged", len(merged)).
			Msg("Fetch incomplete, returning last known history")
		return merged, fetchErr
	}

	s.logger.Info().
		Int("fetched", len(fetched)).
		Int("merged", len(merged)).
		Msg("Ingestion complete")

	return merged, nil
}
