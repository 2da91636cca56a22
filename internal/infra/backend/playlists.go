package backend

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/tunebox/tunebox/internal/domain/playlist"
)

// Playlists returns the signed-in user's playlists.
func (c *Client) Playlists(ctx context.Context) ([]playlist.Playlist, error) {
	var ws []wirePlaylist
	if err := c.get(ctx, "/api/playlists", &ws); err != nil {
		return nil, errors.Wrap(err, "failed to fetch playlists")
	}
	out := make([]playlist.Playlist, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// Playlist returns a single playlist with its tracks.
func (c *Client) Playlist(ctx context.Context, id string) (*playlist.Playlist, error) {
	var w wirePlaylist
	if err := c.get(ctx, "/api/playlists/"+id, &w); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch playlist %s", id)
	}
	p := w.toDomain()
	return &p, nil
}

// LibraryPlaylists returns the playlists saved in the user's library.
func (c *Client) LibraryPlaylists(ctx context.Context) ([]playlist.Playlist, error) {
	var ws []wirePlaylist
	if err := c.get(ctx, "/api/playlists/library", &ws); err != nil {
		return nil, errors.Wrap(err, "failed to fetch library playlists")
	}
	out := make([]playlist.Playlist, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// PlaylistInLibrary reports whether the playlist is saved in the user's library.
func (c *Client) PlaylistInLibrary(ctx context.Context, id string) (bool, error) {
	var in bool
	if err := c.get(ctx, "/api/playlists/"+id+"/library", &in); err != nil {
		return false, err
	}
	return in, nil
}

// AddPlaylistToLibrary saves the playlist to the user's library.
func (c *Client) AddPlaylistToLibrary(ctx context.Context, id string) error {
	return c.post(ctx, "/api/playlists/"+id+"/library", nil, nil)
}

// RemovePlaylistFromLibrary removes the playlist from the user's library.
func (c *Client) RemovePlaylistFromLibrary(ctx context.Context, id string) error {
	return c.del(ctx, "/api/playlists/"+id+"/library")
}
