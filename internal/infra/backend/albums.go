package backend

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/tunebox/tunebox/internal/domain/album"
)

// Albums returns the browsable album list.
func (c *Client) Albums(ctx context.Context) ([]album.Album, error) {
	var ws []wireAlbum
	if err := c.get(ctx, "/api/albums", &ws); err != nil {
		return nil, errors.Wrap(err, "failed to fetch albums")
	}
	out := make([]album.Album, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// Album returns a single album with its tracks.
func (c *Client) Album(ctx context.Context, id string) (*album.Album, error) {
	var w wireAlbum
	if err := c.get(ctx, "/api/albums/"+id, &w); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch album %s", id)
	}
	a := w.toDomain()
	return &a, nil
}

// SearchAlbums searches albums by name.
func (c *Client) SearchAlbums(ctx context.Context, query string) ([]album.Album, error) {
	var ws []wireAlbum
	if err := c.get(ctx, queryPath("/api/albums/search", query), &ws); err != nil {
		return nil, errors.Wrap(err, "album search failed")
	}
	out := make([]album.Album, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// LibraryAlbums returns the albums saved in the user's library.
func (c *Client) LibraryAlbums(ctx context.Context) ([]album.Album, error) {
	var ws []wireAlbum
	if err := c.get(ctx, "/api/albums/library", &ws); err != nil {
		return nil, errors.Wrap(err, "failed to fetch library albums")
	}
	out := make([]album.Album, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// AlbumInLibrary reports whether the album is saved in the user's library.
func (c *Client) AlbumInLibrary(ctx context.Context, id string) (bool, error) {
	var in bool
	if err := c.get(ctx, "/api/albums/"+id+"/library", &in); err != nil {
		return false, err
	}
	return in, nil
}

// AddAlbumToLibrary saves the album to the user's library.
func (c *Client) AddAlbumToLibrary(ctx context.Context, id string) error {
	return c.post(ctx, "/api/albums/"+id+"/library", nil, nil)
}

// RemoveAlbumFromLibrary removes the album from the user's library.
func (c *Client) RemoveAlbumFromLibrary(ctx context.Context, id string) error {
	return c.del(ctx, "/api/albums/"+id+"/library")
}
