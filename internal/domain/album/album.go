// Package album provides the Album domain entity.
package album

import "github.com/tunebox/tunebox/internal/domain/track"

// Album represents a catalog album.
type Album struct {
	ID          string        // Album ID
	Title       string        // Album title
	ArtistID    string        // Primary artist ID
	ArtistName  string        // Primary artist name
	ImageURL    string        // Cover art URL
	ReleaseDate string        // Release date as reported by the catalog
	Tracks      []track.Track // Tracks (populated on detail fetch only)
}

// TrackIDs returns all track IDs on the album.
func (a *Album) TrackIDs() []string {
	ids := make([]string, len(a.Tracks))
	for i, t := range a.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// TotalDurationMS returns the summed duration of all tracks in milliseconds.
func (a *Album) TotalDurationMS() int64 {
	var total int64
	for _, t := range a.Tracks {
		total += t.DurationMS
	}
	return total
}
