package sideko

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// GetOrganization returns the caller's organization.
func (c *Client) GetOrganization(ctx context.Context) (*Organization, error) {
	var org Organization
	if err := c.call(ctx, http.MethodGet, "org", nil, nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// GetAPIKey returns the caller's api key.
func (c *Client) GetAPIKey(ctx context.Context) (*APIKey, error) {
	var key APIKey
	if err := c.call(ctx, http.MethodGet, "user/me/api_key", nil, nil, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// LoginURL is the page that starts a browser login. After authenticating, the
// server redirects to the loopback port with a one-time code.
func (c *Client) LoginURL(cliOutput string, port int) string {
	return c.transport.URL("auth/login_url", url.Values{
		"cli_output": {cliOutput},
		"cli_port":   {strconv.Itoa(port)},
	})
}

// ExchangeCode trades a one-time login code for an api key. It does not
// require credentials.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*APIKey, error) {
	var key APIKey
	if err := c.anonymousJSON(ctx, "auth/exchange_code", url.Values{"code": {code}}, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// CheckUpdates returns the server's notices for cliVersion. It does not
// require credentials.
func (c *Client) CheckUpdates(ctx context.Context, cliVersion string) ([]CLIUpdate, error) {
	var updates []CLIUpdate
	if err := c.anonymousJSON(ctx, "cli/updates", url.Values{"cli_version": {cliVersion}}, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
