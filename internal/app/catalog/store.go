// Package catalog provides the client-side cache of playlists and search
// results.
package catalog

import (
	"context"
	"strings"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/tunebox/tunebox/internal/domain/playlist"
	"github.com/tunebox/tunebox/internal/domain/search"
)

// API is the slice of the backend client that the catalog store needs.
type API interface {
	Playlists(ctx context.Context) ([]playlist.Playlist, error)
	Search(ctx context.Context, query string) (*search.Results, error)
}

// Store holds the signed-in user's playlists and the last search result
// set. Fetches overwrite the held collections wholesale; on failure the
// stale collection is cleared and a single error string is surfaced.
type Store struct {
	mu sync.RWMutex

	api API

	playlists []playlist.Playlist
	results   *search.Results
	query     string
	loading   bool
	err       string
}

// NewStore creates a catalog store.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// FetchPlaylists refreshes the user's playlist list.
func (s *Store) FetchPlaylists(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	playlists, err := s.api.Playlists(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		zlog.Error().Msgf("catalog: failed to fetch playlists: %v", err)
		s.playlists = nil
		s.err = "Failed to fetch playlists"
		return
	}
	s.playlists = playlists
}

// Search runs a catalog search and replaces the held result set.
// A blank query is a no-op.
func (s *Store) Search(ctx context.Context, query string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.query = query
	s.mu.Unlock()

	results, err := s.api.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		zlog.Error().Msgf("catalog: search failed: query=%q err=%v", query, err)
		s.results = nil
		s.err = "Failed to fetch search results"
		return
	}
	s.results = results
}

// Playlists returns the cached playlist list.
func (s *Store) Playlists() []playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlists
}

// Results returns the last search result set, or nil.
func (s *Store) Results() *search.Results {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// Query returns the last search query.
func (s *Store) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last fetch error message, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError clears the stored error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}
