package backend

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/tunebox/tunebox/internal/domain/track"
)

// Tracks returns the browsable track list.
func (c *Client) Tracks(ctx context.Context) ([]track.Track, error) {
	var ws []wireTrack
	if err := c.get(ctx, "/api/tracks", &ws); err != nil {
		return nil, errors.Wrap(err, "failed to fetch tracks")
	}
	return toTracks(ws), nil
}

// Track returns a single track.
func (c *Client) Track(ctx context.Context, id string) (*track.Track, error) {
	var w wireTrack
	if err := c.get(ctx, "/api/tracks/"+id, &w); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch track %s", id)
	}
	t := w.toDomain()
	return &t, nil
}

// SearchTracks searches tracks by name.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]track.Track, error) {
	var ws []wireTrack
	if err := c.get(ctx, queryPath("/api/tracks/search", query), &ws); err != nil {
		return nil, errors.Wrap(err, "track search failed")
	}
	return toTracks(ws), nil
}

// LikedTracks returns the user's liked tracks.
func (c *Client) LikedTracks(ctx context.Context) ([]track.Track, error) {
	var ws []wireTrack
	if err := c.get(ctx, "/api/tracks/liked", &ws); err != nil {
		return nil, errors.Wrap(err, "failed to fetch liked tracks")
	}
	return toTracks(ws), nil
}

// TrackLiked reports whether the track is liked by the user.
func (c *Client) TrackLiked(ctx context.Context, id string) (bool, error) {
	var liked bool
	if err := c.get(ctx, "/api/tracks/"+id+"/liked", &liked); err != nil {
		return false, err
	}
	return liked, nil
}

// LikeTrack marks the track as liked.
func (c *Client) LikeTrack(ctx context.Context, id string) error {
	return c.post(ctx, "/api/tracks/"+id+"/like", nil, nil)
}

// UnlikeTrack removes the track from liked tracks.
func (c *Client) UnlikeTrack(ctx context.Context, id string) error {
	return c.del(ctx, "/api/tracks/"+id+"/like")
}

func toTracks(ws []wireTrack) []track.Track {
	out := make([]track.Track, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out
}
