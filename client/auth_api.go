package client

import (
	"context"
	"net/http"

	"github.com/darhlilove/streambase"
)

var _ streambase.AuthAPI = (*Client)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

type deleteProfileRequest struct {
	Password string `json:"password"`
}

// Login exchanges user credentials for a token and principal.
func (c *Client) Login(ctx context.Context, email, password string) (*streambase.LoginResult, error) {
	out := &streambase.LoginResult{}
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Email:    email,
		Password: password,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoginAdmin exchanges admin credentials (email, password, PIN) for a token
// and principal.
func (c *Client) LoginAdmin(ctx context.Context, email, password, pin string) (*streambase.LoginResult, error) {
	out := &streambase.LoginResult{}
	err := c.do(ctx, http.MethodPost, "/auth/admin/login", nil, adminLoginRequest{
		Email:    email,
		Password: password,
		PIN:      pin,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates an account. It does not sign the caller in.
func (c *Client) Register(ctx context.Context, reg streambase.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, reg, nil)
}

// DeleteProfile removes the authenticated account after the service
// re-verifies the password.
func (c *Client) DeleteProfile(ctx context.Context, token, password string) error {
	ctx = streambase.WithToken(ctx, token)
	return c.do(ctx, http.MethodDelete, "/auth/profile", nil, deleteProfileRequest{
		Password: password,
	}, nil)
}
