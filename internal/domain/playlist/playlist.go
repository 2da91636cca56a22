// Package playlist provides the Playlist domain entity.
package playlist

import (
	"time"

	"github.com/tunebox/tunebox/internal/domain/track"
)

// Item is a track entry on a playlist together with when it was added.
type Item struct {
	AddedAt time.Time   // Time the track was added to the playlist
	Track   track.Track // The track itself
}

// Playlist represents a catalog playlist.
type Playlist struct {
	ID          string // Playlist ID
	Name        string // Playlist name
	Description string // Playlist description
	OwnerID     string // Owner user ID
	OwnerName   string // Owner display name
	ImageURL    string // Cover art URL
	Items       []Item // Tracks (populated on detail fetch only)
}

// TrackIDs returns all track IDs on the playlist.
func (p *Playlist) TrackIDs() []string {
	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.Track.ID
	}
	return ids
}

// TotalDuration returns the total duration of all tracks.
func (p *Playlist) TotalDuration() time.Duration {
	var total time.Duration
	for _, it := range p.Items {
		total += it.Track.Duration()
	}
	return total
}
