package backend

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunebox/tunebox/internal/domain/search"
)

// Search performs a catalog-wide search. Older backend deployments only
// expose /api/search/all, so a 404 on the primary path falls back to it.
func (c *Client) Search(ctx context.Context, query string) (*search.Results, error) {
	var w wireSearchResults
	err := c.get(ctx, queryPath("/api/search", query), &w)
	if IsNotFound(err) {
		zlog.Debug().Msgf("backend: /api/search not available, falling back to /api/search/all")
		err = c.get(ctx, queryPath("/api/search/all", query), &w)
	}
	if err != nil {
		return nil, errors.Wrap(err, "search failed")
	}
	return w.toDomain(), nil
}
