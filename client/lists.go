package client

import (
	"context"
	"net/http"
	"net/url"
)

type addListEntryRequest struct {
	MovieID   string `json:"movie_id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url,omitempty"`
}

// ListEntries returns the authenticated user's entries for one list.
func (c *Client) ListEntries(ctx context.Context, kind ListKind) ([]ListEntry, error) {
	var out []ListEntry
	if err := c.do(ctx, http.MethodGet, "/lists/"+string(kind), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToList puts a movie on one of the user's lists. Adding an existing
// entry is a no-op on the server.
func (c *Client) AddToList(ctx context.Context, kind ListKind, movie Movie) error {
	return c.do(ctx, http.MethodPost, "/lists/"+string(kind), nil, addListEntryRequest{
		MovieID:   movie.ID,
		Title:     movie.Title,
		PosterURL: movie.PosterURL,
	}, nil)
}

// RemoveFromList takes a movie off one of the user's lists.
func (c *Client) RemoveFromList(ctx context.Context, kind ListKind, movieID string) error {
	path := "/lists/" + string(kind) + "/" + url.PathEscape(movieID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
