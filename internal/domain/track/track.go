// Package track provides the Track domain entity.
package track

import "time"

// AlbumRef is a lightweight reference to the album a track belongs to.
type AlbumRef struct {
	ID   string // Album ID
	Name string // Album name
}

// Track represents a catalog track.
// Immutable once fetched; owned by whichever store fetched it.
type Track struct {
	ID         string   // Track ID
	Name       string   // Track name
	Album      AlbumRef // Owning album
	Artists    []string // Artist names
	DurationMS int64    // Track duration in milliseconds
	PreviewURL string   // Preview audio URL (may be empty)
}

// Duration returns the track duration.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}

// HasPreview reports whether the track carries a playable preview URL.
func (t *Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// ArtistLine returns the artist names joined for display.
func (t *Track) ArtistLine() string {
	switch len(t.Artists) {
	case 0:
		return ""
	case 1:
		return t.Artists[0]
	}
	line := t.Artists[0]
	for _, a := range t.Artists[1:] {
		line += ", " + a
	}
	return line
}
