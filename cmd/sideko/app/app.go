// Package app provides the application context and dependency management
// for the sideko CLI. It centralizes configuration, logging, the config
// store and API client construction for every command.
package app

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/prompt"
	"github.com/sideko-inc/sideko/internal/config"
	"github.com/sideko-inc/sideko/internal/editor"
	"github.com/sideko-inc/sideko/internal/updatecheck"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// App represents the sideko application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config

	// logger is shared by pointer with the store; setupCommand replaces
	// the value it points to once flags are parsed.
	logger *zerolog.Logger
	store  *config.Store

	prompter prompt.Prompter
	stdout   io.Writer
	logOut   io.Writer
	keychain config.Keychain

	// notices are update messages shown after the command succeeds.
	notices []updatecheck.Notice
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:  version,
		commit:   commit,
		date:     date,
		builtBy:  builtBy,
		prompter: prompt.Terminal{},
		stdout:   os.Stdout,
		logOut:   os.Stderr,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = cfg

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	logger := NewLogger(app.config, app.logOut)
	app.logger = &logger

	storeOpts := []config.Option{config.WithLogger(app.logger)}
	if app.keychain != nil {
		storeOpts = append(storeOpts, config.WithKeychain(app.keychain))
	}
	app.store = config.NewStore(storeOpts...)

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Store returns the configuration store.
func (a *App) Store() appcontext.Store {
	return a.store
}

// Prompter returns the interactive prompter.
func (a *App) Prompter() prompt.Prompter {
	return a.prompter
}

// Stdout returns where command output is written.
func (a *App) Stdout() io.Writer {
	return a.stdout
}

// OpenBrowser opens url in the default browser.
func (a *App) OpenBrowser(url string) error {
	return browser.OpenURL(url)
}

// CopyToClipboard writes text to the system clipboard.
func (a *App) CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return &errors.ClipboardError{Err: err}
	}
	return nil
}

// EditorRunner returns nil so commands launch the real editor.
func (a *App) EditorRunner() editor.Runner {
	return nil
}

// HomeDir returns the user's home directory.
func (a *App) HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("home", "could not determine home directory", err)
	}
	return home, nil
}

// Client returns an API client for the configured base URL, authenticated
// with the api key when one is stored.
func (a *App) Client() (*sideko.Client, error) {
	key, err := a.store.APIKey()
	if err != nil {
		return nil, err
	}
	return sideko.NewClient(a.store.BaseURL(), key, a.clientOptions()...), nil
}

// anonymousClient never touches the keychain.
func (a *App) anonymousClient() *sideko.Client {
	return sideko.NewClient(a.store.BaseURL(), "", a.clientOptions()...)
}

func (a *App) clientOptions() []sideko.Option {
	return []sideko.Option{
		sideko.WithLogger(a.logger),
		sideko.WithUserAgent("sideko-cli/" + a.version),
	}
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithStdout redirects command output.
func WithStdout(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}

// WithLogOutput redirects log output.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) error {
		a.logOut = w
		return nil
	}
}

// WithPrompter replaces the interactive prompter.
func WithPrompter(p prompt.Prompter) Option {
	return func(a *App) error {
		a.prompter = p
		return nil
	}
}

// WithKeychain replaces the OS keychain.
func WithKeychain(k config.Keychain) Option {
	return func(a *App) error {
		a.keychain = k
		return nil
	}
}
