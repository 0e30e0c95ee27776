// Package sideko is a typed client for the Sideko REST API.
//
// Every operation takes a context first and returns either a decoded model,
// a BinaryResponse for file downloads, or an error. Failed requests surface
// as *errors.APIError carrying the status, headers and body of the response.
//
// Example usage:
//
//	client := sideko.NewClient("https://api.sideko.dev/v1", apiKey)
//	apis, err := client.ListAPIs(ctx)
//	if err != nil {
//	    return err
//	}
package sideko

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/transport"
)

// Client calls the Sideko API.
type Client struct {
	transport *transport.Client
	opts      []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.opts = append(c.opts, transport.WithHTTPClient(hc))
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.opts = append(c.opts, transport.WithLogger(logger))
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.opts = append(c.opts, transport.WithUserAgent(ua))
	}
}

// NewClient creates a client for baseURL. An empty apiKey yields an
// anonymous client that can only call unauthenticated operations.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	c.opts = append(c.opts, transport.WithAPIKey(apiKey))
	c.transport = transport.New(baseURL, transport.APIKeyAuth(), c.opts...)
	return c
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL()
}

// BinaryResponse is a downloaded file with the headers it was served with.
type BinaryResponse struct {
	Content []byte
	Header  http.Header
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body transport.Body, authenticated bool) (*http.Response, error) {
	req, err := c.transport.NewRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return c.transport.Do(req, authenticated)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body transport.Body, target any) error {
	resp, err := c.do(ctx, method, path, query, body, true)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, target)
}

func (c *Client) anonymousJSON(ctx context.Context, path string, query url.Values, target any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, false)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, target)
}

func (c *Client) binary(ctx context.Context, method, path string, body transport.Body) (*BinaryResponse, error) {
	resp, err := c.do(ctx, method, path, nil, body, true)
	if err != nil {
		return nil, err
	}
	bin, err := transport.ReadBinary(resp)
	if err != nil {
		return nil, err
	}
	return &BinaryResponse{Content: bin.Content, Header: bin.Header}, nil
}

// segment escapes a user-supplied path element.
func segment(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.Join(escaped, "/")
}

func formBool(b bool) string {
	return strconv.FormatBool(b)
}

// documentType returns the upload content type for an OpenAPI or config file.
func documentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "application/json"
	case ".yml", ".yaml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}
