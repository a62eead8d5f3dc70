package client

import (
	"context"
	"net/http"
	"net/url"
)

type submitRequestPayload struct {
	Title string `json:"title"`
	Kind  string `json:"kind"`
	Note  string `json:"note,omitempty"`
}

type resolveRequestPayload struct {
	Status RequestStatus `json:"status"`
}

// SubmitRequest files a content request for a missing title.
func (c *Client) SubmitRequest(ctx context.Context, title, kind, note string) (*ContentRequest, error) {
	out := &ContentRequest{}
	err := c.do(ctx, http.MethodPost, "/requests", nil, submitRequestPayload{
		Title: title,
		Kind:  kind,
		Note:  note,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MyRequests returns the authenticated user's content requests.
func (c *Client) MyRequests(ctx context.Context) ([]ContentRequest, error) {
	var out []ContentRequest
	if err := c.do(ctx, http.MethodGet, "/requests/mine", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllRequests returns every content request. Admin only.
func (c *Client) AllRequests(ctx context.Context) ([]ContentRequest, error) {
	var out []ContentRequest
	if err := c.do(ctx, http.MethodGet, "/requests", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveRequest moves a content request to a new status. Admin only.
func (c *Client) ResolveRequest(ctx context.Context, id string, status RequestStatus) error {
	path := "/requests/" + url.PathEscape(id) + "/resolve"
	return c.do(ctx, http.MethodPost, path, nil, resolveRequestPayload{Status: status}, nil)
}
