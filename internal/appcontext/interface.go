// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App so they can be tested with Mock.
package appcontext

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/cmd/prompt"
	"github.com/sideko-inc/sideko/internal/config"
	"github.com/sideko-inc/sideko/internal/editor"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// Store is the part of the Config Store commands mutate.
type Store interface {
	ConfigPath() (string, error)
	SetProcessEnv(k config.Key, value string) error
	UnsetEnv(k config.Key) error
	SetKeyring(k config.Key, value string) error
	UnsetKeyring(k config.Key) error
}

// Interface defines the application context interface that commands need.
// The App struct from cmd/sideko/app implements it.
type Interface interface {
	// Client returns an API client for the configured base URL and api key.
	// It is built on every call so that a key stored earlier in the same
	// process is picked up.
	Client() (*sideko.Client, error)

	// Store returns the configuration store.
	Store() Store

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// Prompter asks the user questions.
	Prompter() prompt.Prompter

	// Stdout receives tables and raw JSON output.
	Stdout() io.Writer

	// OpenBrowser opens url in the user's browser.
	OpenBrowser(url string) error

	// CopyToClipboard places text on the system clipboard.
	CopyToClipboard(text string) error

	// EditorRunner launches the user's editor. Nil means the real editor.
	EditorRunner() editor.Runner

	// HomeDir returns the user's home directory.
	HomeDir() (string, error)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
