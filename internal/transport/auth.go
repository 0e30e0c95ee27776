package transport

import (
	"net/http"

	"github.com/sideko-inc/sideko/pkg/constants"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	if apiKey == "" {
		return
	}
	req.Header.Set(a.Header, apiKey)
}

// APIKeyAuth is the scheme used by the Sideko API.
func APIKeyAuth() Authenticator {
	return &HeaderAuth{Header: constants.AuthHeader}
}
