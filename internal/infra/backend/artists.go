package backend

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/tunebox/tunebox/internal/domain/artist"
)

// Artists returns the browsable artist list.
func (c *Client) Artists(ctx context.Context) ([]artist.Artist, error) {
	var ws []wireArtist
	if err := c.get(ctx, "/api/artists", &ws); err != nil {
		return nil, errors.Wrap(err, "failed to fetch artists")
	}
	return toArtists(ws), nil
}

// Artist returns a single artist.
func (c *Client) Artist(ctx context.Context, id string) (*artist.Artist, error) {
	var w wireArtist
	if err := c.get(ctx, "/api/artists/"+id, &w); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch artist %s", id)
	}
	a := w.toDomain()
	return &a, nil
}

// SearchArtists searches artists by name.
func (c *Client) SearchArtists(ctx context.Context, query string) ([]artist.Artist, error) {
	var ws []wireArtist
	if err := c.get(ctx, queryPath("/api/artists/search", query), &ws); err != nil {
		return nil, errors.Wrap(err, "artist search failed")
	}
	return toArtists(ws), nil
}

func toArtists(ws []wireArtist) []artist.Artist {
	out := make([]artist.Artist, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out
}
