package sideko

import (
	"context"
	"net/http"

	"github.com/sideko-inc/sideko/internal/transport"
	"github.com/sideko-inc/sideko/pkg/errors"
)

// ListAPIs returns every API of the organization.
func (c *Client) ListAPIs(ctx context.Context) ([]API, error) {
	var apis []API
	if err := c.call(ctx, http.MethodGet, "api", nil, nil, &apis); err != nil {
		return nil, err
	}
	return apis, nil
}

// CreateAPI registers an API with no versions.
func (c *Client) CreateAPI(ctx context.Context, name string) (*API, error) {
	var api API
	body := transport.JSONBody{Value: map[string]string{"name": name}}
	if err := c.call(ctx, http.MethodPost, "api", nil, body, &api); err != nil {
		return nil, err
	}
	return &api, nil
}

// InitAPIRequest creates an API together with its first version.
type InitAPIRequest struct {
	Name              string
	Version           string
	OpenAPIPath       string
	MockServerEnabled bool
	AllowLintErrors   bool
}

// InitAPI creates an API and its initial version in one call.
func (c *Client) InitAPI(ctx context.Context, r InitAPIRequest) (*APISpec, error) {
	if r.Name == "" {
		return nil, errors.NewValidationError("name", r.Name, "api name is required")
	}
	body := &transport.MultipartBody{}
	body.AddField("name", r.Name)
	body.AddField("version", r.Version)
	body.AddField("mock_server_enabled", formBool(r.MockServerEnabled))
	body.AddField("allow_lint_errors", formBool(r.AllowLintErrors))
	body.AddFile("openapi", r.OpenAPIPath, documentType(r.OpenAPIPath))

	var spec APISpec
	if err := c.call(ctx, http.MethodPost, "api/init", nil, body, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ListSpecs returns the versions of an API, most recent first.
func (c *Client) ListSpecs(ctx context.Context, apiName string) ([]APISpec, error) {
	var specs []APISpec
	if err := c.call(ctx, http.MethodGet, segment("api", apiName, "spec"), nil, nil, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// CreateSpecRequest adds a version to an existing API.
type CreateSpecRequest struct {
	APIName           string
	Version           string // semver or a bump: patch, minor, major, rc
	OpenAPIPath       string
	Notes             string
	MockServerEnabled bool
	AllowLintErrors   bool
}

// CreateSpec uploads a new API version.
func (c *Client) CreateSpec(ctx context.Context, r CreateSpecRequest) (*APISpec, error) {
	body := &transport.MultipartBody{}
	body.AddField("version", r.Version)
	if r.Notes != "" {
		body.AddField("notes", r.Notes)
	}
	body.AddField("mock_server_enabled", formBool(r.MockServerEnabled))
	body.AddField("allow_lint_errors", formBool(r.AllowLintErrors))
	body.AddFile("openapi", r.OpenAPIPath, documentType(r.OpenAPIPath))

	var spec APISpec
	if err := c.call(ctx, http.MethodPost, segment("api", r.APIName, "spec"), nil, body, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// UpdateSpecRequest patches an existing API version. Zero fields are left unchanged.
type UpdateSpecRequest struct {
	APIName           string
	APIVersion        string
	Version           string
	OpenAPIPath       string
	Notes             string
	MockServerEnabled *bool
}

// UpdateSpec modifies an API version.
func (c *Client) UpdateSpec(ctx context.Context, r UpdateSpecRequest) (*APISpec, error) {
	body := &transport.MultipartBody{}
	if r.Version != "" {
		body.AddField("version", r.Version)
	}
	if r.Notes != "" {
		body.AddField("notes", r.Notes)
	}
	if r.MockServerEnabled != nil {
		body.AddField("mock_server_enabled", formBool(*r.MockServerEnabled))
	}
	if r.OpenAPIPath != "" {
		body.AddFile("openapi", r.OpenAPIPath, documentType(r.OpenAPIPath))
	}

	var spec APISpec
	if err := c.call(ctx, http.MethodPatch, segment("api", r.APIName, "spec", r.APIVersion), nil, body, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// GetSpec returns one API version. version may be "latest".
func (c *Client) GetSpec(ctx context.Context, apiName, version string) (*APISpec, error) {
	var spec APISpec
	if err := c.call(ctx, http.MethodGet, segment("api", apiName, "spec", version), nil, nil, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// GetOpenAPI downloads the OpenAPI document of an API version.
func (c *Client) GetOpenAPI(ctx context.Context, apiName, version string) (*OpenAPIDocument, error) {
	var doc OpenAPIDocument
	if err := c.call(ctx, http.MethodGet, segment("api", apiName, "spec", version, "openapi"), nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetStats returns operation counts of an API version.
func (c *Client) GetStats(ctx context.Context, apiName, version string) (*Stats, error) {
	var stats Stats
	if err := c.call(ctx, http.MethodGet, segment("api", apiName, "spec", version, "stats"), nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LintRequest lints either a local file or a stored API version.
type LintRequest struct {
	OpenAPIPath string
	APIName     string
	APIVersion  string
}

// Lint runs the OpenAPI linter.
func (c *Client) Lint(ctx context.Context, r LintRequest) (*LintReport, error) {
	body := &transport.MultipartBody{}
	switch {
	case r.OpenAPIPath != "":
		body.AddFile("openapi", r.OpenAPIPath, documentType(r.OpenAPIPath))
	case r.APIName != "":
		body.AddField("api_name", r.APIName)
		version := r.APIVersion
		if version == "" {
			version = "latest"
		}
		body.AddField("api_version", version)
	default:
		return nil, errors.NewValidationError("lint", "", "either an openapi path or an api name is required")
	}

	var report LintReport
	if err := c.call(ctx, http.MethodPost, "lint", nil, body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
