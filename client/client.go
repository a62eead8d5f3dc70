// Package client is the typed REST client for the Streambase API. It
// implements the streambase.AuthAPI and streambase.NotificationAPI
// collaborator interfaces and adds catalog, list, and request wrappers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/darhlilove/streambase"
)

// TokenSource yields the bearer token for outgoing calls. Wire this to
// Auther.Token so the client always sends the active session's token.
type TokenSource func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  streambase.Logger
}

// New builds a client rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   func() string { return "" },
		logger:  noopLogger{},
	}
}

func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

func (c *Client) WithTokenSource(src TokenSource) *Client {
	if src != nil {
		c.token = src
	}
	return c
}

func (c *Client) WithLogger(logger streambase.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

type apiError struct {
	Error string `json:"error"`
}

// do runs one API call: JSON in, JSON out, with the bearer token attached
// and HTTP failures classified into the session core's error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "encode request body")
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "build request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := c.token()
	if ctxToken, ok := streambase.TokenFromContext(ctx); ok {
		token = ctxToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return streambase.WrapNetworkError(err, "service unreachable, please try again")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.classify(res)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "decode response body")
	}
	return nil
}

func (c *Client) classify(res *http.Response) error {
	var body apiError
	message := http.StatusText(res.StatusCode)
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error != "" {
		message = body.Error
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return streambase.ErrInvalidCredentials
	case res.StatusCode == http.StatusNotFound:
		return goerrors.New(message, goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound)
	case res.StatusCode == http.StatusConflict:
		return goerrors.New(message, goerrors.CategoryConflict).
			WithCode(goerrors.CodeConflict)
	case res.StatusCode >= 500:
		return streambase.WrapNetworkError(
			fmt.Errorf("status %d: %s", res.StatusCode, message),
			"service unreachable, please try again",
		)
	default:
		return goerrors.New(message, goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
