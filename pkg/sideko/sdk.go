package sideko

import (
	"context"
	"net/http"

	"github.com/sideko-inc/sideko/internal/transport"
	"github.com/sideko-inc/sideko/pkg/constants"
)

// InitSDKConfigRequest asks the server for a starter SDK config.
type InitSDKConfigRequest struct {
	APIName         string          `json:"api_name"`
	APIVersion      string          `json:"api_version,omitempty"`
	ModuleStructure ModuleStructure `json:"default_module_structure,omitempty"`
}

// InitSDKConfig returns a YAML SDK config for an API version.
func (c *Client) InitSDKConfig(ctx context.Context, r InitSDKConfigRequest) (*BinaryResponse, error) {
	return c.binary(ctx, http.MethodPost, "sdk/config/init", transport.JSONBody{Value: r})
}

// ConfigCustomizations selects where module names come from when syncing.
type ConfigCustomizations string

// Customization sources.
const (
	CustomizeConfig ConfigCustomizations = "config"
	CustomizeXField ConfigCustomizations = "x-field"
)

// SyncSDKConfigRequest reconciles an SDK config with an API version or a
// local OpenAPI document. OpenAPIPath takes priority over APIVersion.
type SyncSDKConfigRequest struct {
	ConfigPath     string
	APIVersion     string
	OpenAPIPath    string
	Customizations ConfigCustomizations
}

// SyncSDKConfig returns the synced YAML config.
func (c *Client) SyncSDKConfig(ctx context.Context, r SyncSDKConfigRequest) (*BinaryResponse, error) {
	body := &transport.MultipartBody{}
	body.AddFile("config", r.ConfigPath, documentType(r.ConfigPath))
	if r.OpenAPIPath != "" {
		body.AddFile("openapi", r.OpenAPIPath, documentType(r.OpenAPIPath))
	} else if r.APIVersion != "" {
		body.AddField("api_version", r.APIVersion)
	}
	if r.Customizations != "" {
		body.AddField("customizations", string(r.Customizations))
	}
	return c.binary(ctx, http.MethodPost, "sdk/config/sync", body)
}

// GenerateSDKRequest generates a fresh SDK.
type GenerateSDKRequest struct {
	ConfigPath      string
	Language        Language
	SDKVersion      string
	APIVersion      string
	GithubActions   bool
	AllowLintErrors bool
}

// GenerateSDK returns the generated SDK as a gzipped tarball.
func (c *Client) GenerateSDK(ctx context.Context, r GenerateSDKRequest) (*BinaryResponse, error) {
	body := &transport.MultipartBody{}
	body.AddFile("config", r.ConfigPath, documentType(r.ConfigPath))
	body.AddField("language", string(r.Language))
	if r.SDKVersion != "" {
		body.AddField("sdk_version", r.SDKVersion)
	}
	if r.APIVersion != "" {
		body.AddField("api_version", r.APIVersion)
	}
	body.AddField("github_actions", formBool(r.GithubActions))
	body.AddField("allow_lint_errors", formBool(r.AllowLintErrors))
	return c.binary(ctx, http.MethodPost, "sdk", body)
}

// UpdateSDKRequest regenerates an existing SDK against its git history.
type UpdateSDKRequest struct {
	ConfigPath      string
	PrevSDKGitPath  string // gzipped tar of the repository's .git directory
	PrevSDKID       string
	SDKVersion      string
	APIVersion      string
	AllowLintErrors bool
}

// UpdateSDK returns a unified diff that brings the SDK up to date. An empty
// patch means there is nothing to change.
func (c *Client) UpdateSDK(ctx context.Context, r UpdateSDKRequest) (*BinaryResponse, error) {
	body := &transport.MultipartBody{}
	body.AddFile("config", r.ConfigPath, documentType(r.ConfigPath))
	body.Files = append(body.Files, transport.FormFile{
		Field:       "prev_sdk_git",
		Path:        r.PrevSDKGitPath,
		Name:        constants.GitArchiveName,
		ContentType: "application/gzip",
	})
	body.AddField("prev_sdk_id", r.PrevSDKID)
	body.AddField("sdk_version", r.SDKVersion)
	if r.APIVersion != "" {
		body.AddField("api_version", r.APIVersion)
	}
	if r.AllowLintErrors {
		body.AddField("allow_lint_errors", formBool(true))
	}
	return c.binary(ctx, http.MethodPost, "sdk/update", body)
}

// UpdateSDKMetadata records whether an SDK has been released.
func (c *Client) UpdateSDKMetadata(ctx context.Context, sdkID string, released bool) (*SDK, error) {
	var sdk SDK
	body := transport.JSONBody{Value: map[string]bool{"released": released}}
	if err := c.call(ctx, http.MethodPatch, segment("sdk", sdkID), nil, body, &sdk); err != nil {
		return nil, err
	}
	return &sdk, nil
}
