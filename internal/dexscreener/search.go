package dexscreener

import (
	"context"
	"fmt"
	"net/url"
)

// Search queries pairs matching the given free-text term. A nil Pairs
// field in the response decodes as an empty slice from the caller's
// point of view; the API returns 200 with no pairs for unknown terms.
func (c *Client) Search(ctx context.Context, term string) ([]Pair, error) {
	query := url.Values{}
	query.Set("q", term)

	var resp SearchResponse
	if err := c.get(ctx, "/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	return resp.Pairs, nil
}
