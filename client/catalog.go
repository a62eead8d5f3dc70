package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
)

// SearchMovies queries the catalog by title.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*CatalogPage, error) {
	if query == "" {
		return nil, goerrors.New("search query is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}
	if page < 1 {
		page = 1
	}

	out := &CatalogPage{}
	params := url.Values{
		"query": []string{query},
		"page":  []string{strconv.Itoa(page)},
	}
	if err := c.do(ctx, http.MethodGet, "/catalog/search", params, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Discover returns a curated catalog row (trending, popular, top-rated).
func (c *Client) Discover(ctx context.Context, kind DiscoverKind, page int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}

	out := &CatalogPage{}
	params := url.Values{"page": []string{strconv.Itoa(page)}}
	if err := c.do(ctx, http.MethodGet, "/catalog/"+string(kind), params, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MovieDetails returns the full record for one title.
func (c *Client) MovieDetails(ctx context.Context, id string) (*Movie, error) {
	out := &Movie{}
	if err := c.do(ctx, http.MethodGet, "/catalog/movies/"+url.PathEscape(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SimilarMovies returns titles related to the given one.
func (c *Client) SimilarMovies(ctx context.Context, id string) ([]Movie, error) {
	var out []Movie
	path := "/catalog/movies/" + url.PathEscape(id) + "/similar"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
