package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/darhlilove/streambase"
)

var _ streambase.NotificationAPI = (*Client)(nil)

// Fetch returns the user's notifications, newest first.
func (c *Client) Fetch(ctx context.Context, userID string) ([]streambase.Notification, error) {
	var out []streambase.Notification
	query := url.Values{"user_id": []string{userID}}
	if err := c.do(ctx, http.MethodGet, "/notifications", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead marks a single notification as read.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

// MarkAllRead marks every notification of the user as read.
func (c *Client) MarkAllRead(ctx context.Context, userID string) error {
	query := url.Values{"user_id": []string{userID}}
	return c.do(ctx, http.MethodPost, "/notifications/read-all", query, nil, nil)
}
