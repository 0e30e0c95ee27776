package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
)

// Client provides HTTP client functionality with authentication.
type Client struct {
	http      *http.Client
	baseURL   string
	auth      Authenticator
	apiKey    string
	userAgent string
	logger    *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAPIKey sets the credential passed to the authenticator.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a new transport client for baseURL with the specified authenticator.
func New(baseURL string, auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		// no overall timeout: sdk generation responds only once the server
		// is done, so requests end with their context
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL and encodes query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// NewRequest builds a request for path relative to the base URL.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body Body) (*http.Request, error) {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		r, ct, err := body.Encode()
		if err != nil {
			return nil, err
		}
		reader, contentType = r, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return nil, errors.WrapIO("create request", method+" "+path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// Do performs an HTTP request, applying authentication when authenticated is
// true. Non-2xx responses are returned as *errors.APIError with the body consumed.
func (c *Client) Do(req *http.Request, authenticated bool) (*http.Response, error) {
	if authenticated {
		c.auth.Apply(req, c.apiKey)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Trace().Str("method", req.Method).Str("path", req.URL.Path).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, errors.Join(errors.ErrCanceled, ctxErr)
		}
		return nil, &errors.GeneralError{
			Message: "failed to reach the sideko api at " + c.baseURL,
			Debug:   err.Error(),
			Err:     err,
		}
	}

	c.logger.Trace().Str("method", req.Method).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer closeBody(resp)
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewAPIError(req.Method, redactedURL(req.URL), resp.StatusCode, resp.Header, body)
	}
	return resp, nil
}

// redactedURL drops the query string, which may carry one-time codes.
func redactedURL(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.User = nil
	return clean.String()
}
