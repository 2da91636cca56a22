// Package search provides the search result aggregate.
package search

import (
	"github.com/tunebox/tunebox/internal/domain/album"
	"github.com/tunebox/tunebox/internal/domain/artist"
	"github.com/tunebox/tunebox/internal/domain/playlist"
	"github.com/tunebox/tunebox/internal/domain/track"
)

// Results groups per-type result sets for one catalog search.
// Absent sections are empty slices.
type Results struct {
	Albums    []album.Album
	Artists   []artist.Artist
	Playlists []playlist.Playlist
	Tracks    []track.Track
}

// IsEmpty reports whether the search matched nothing at all.
func (r *Results) IsEmpty() bool {
	return len(r.Albums) == 0 && len(r.Artists) == 0 && len(r.Playlists) == 0 && len(r.Tracks) == 0
}

// Total returns the number of matches across all sections.
func (r *Results) Total() int {
	return len(r.Albums) + len(r.Artists) + len(r.Playlists) + len(r.Tracks)
}
