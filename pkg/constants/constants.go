// Package constants provides shared constants used throughout the sideko codebase.
// This includes timeouts, file permissions, well-known names and the defaults
// the CLI falls back to when nothing is configured.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// UpdateCheckTimeout bounds the pre-command CLI update check
	UpdateCheckTimeout = 5 * time.Second

	// LoginTimeout is how long the login callback server waits for the browser flow
	LoginTimeout = 300 * time.Second

	// DeploymentTimeout is the total deadline for polling a documentation deployment
	DeploymentTimeout = 10 * time.Minute

	// DeploymentPollInterval is the pause between two deployment status checks
	DeploymentPollInterval = 2 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the local callback server
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like the dotfile (rw-------)
	SecureFilePermissions = 0600
)

// Well-known names
const (
	// AppName is the binary and keychain service name
	AppName = "sideko"

	// DefaultBaseURL is the production API endpoint
	DefaultBaseURL = "https://api.sideko.dev/v1"

	// BaseURLSuffix is the path every configured base URL is expected to end with
	BaseURLSuffix = "/v1"

	// DotfileName is the name of the per-user config file under $HOME
	DotfileName = ".sideko"

	// LoginPort is the loopback port the login callback server binds
	LoginPort = 65530

	// SDKMetadataFile marks the root of a managed SDK repository
	SDKMetadataFile = ".sdk.json"

	// PatchFileName is where a server-produced SDK update is written before applying
	PatchFileName = "sdk_update.patch"

	// GitArchiveName is the name of the packaged .git directory sent to the server
	GitArchiveName = "git.tar.gz"

	// AuthHeader carries the API key on authenticated requests
	AuthHeader = "x-sideko-key"

	// DocsDomain is the public domain hosting api and documentation pages
	DocsDomain = "sideko.dev"
)
