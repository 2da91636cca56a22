// Package artist provides the Artist domain entity.
package artist

// Artist represents a catalog artist.
type Artist struct {
	ID        string   // Artist ID
	Name      string   // Artist name
	ImageURL  string   // Portrait URL
	Genres    []string // Genres
	Followers int      // Follower count
}
