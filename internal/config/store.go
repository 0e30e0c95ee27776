package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/sideko-inc/sideko/pkg/constants"
	pkgerrors "github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
)

// Store resolves configuration keys. Reads consult, in order, the process
// environment, the keychain (APIKey only) and values loaded from the dotfile.
type Store struct {
	env      *viper.Viper
	keychain Keychain
	logger   *zerolog.Logger
	homeDir  func() (string, error)

	mu sync.Mutex
	// fromDotfile holds env values that were injected by Load or SetEnv
	// rather than set by the user's shell.
	fromDotfile map[string]string

	warnAlias   sync.Once
	warnBaseURL sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithKeychain replaces the OS keychain.
func WithKeychain(k Keychain) Option {
	return func(s *Store) {
		s.keychain = k
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithHomeDir overrides how the user's home directory is found.
func WithHomeDir(fn func() (string, error)) Option {
	return func(s *Store) {
		s.homeDir = fn
	}
}

// NewStore creates a Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		env:         newEnv(),
		keychain:    OSKeychain{},
		logger:      logging.Default(),
		homeDir:     os.UserHomeDir,
		fromDotfile: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the dotfile, if present, into the process environment without
// overriding variables that are already set.
func (s *Store) Load() error {
	path, err := s.ConfigPath()
	if err != nil {
		s.logger.Debug().Err(err).Msg("skipping dotfile load")
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s.logger.Debug().Str("path", path).Msg("no dotfile found")
		return nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return pkgerrors.WrapParse("dotenv", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, value := range values {
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return pkgerrors.WrapIO("set env", name, err)
		}
		s.fromDotfile[name] = value
	}
	s.logger.Debug().Str("path", path).Int("keys", len(values)).Msg("loaded dotfile")
	return nil
}

// Lookup resolves k. The boolean is false when no layer holds a value.
func (s *Store) Lookup(k Key) (string, bool, error) {
	value, source, ok := s.envValue(k)
	if ok && !s.injected(source, value) {
		s.noteSource(k, source)
		return value, true, nil
	}

	if k == APIKey {
		secret, err := s.keychain.Get(constants.AppName, k.String())
		switch {
		case err == nil && secret != "":
			return secret, true, nil
		case err != nil && !errors.Is(err, pkgerrors.ErrKeychainNoEntry):
			return "", false, &pkgerrors.KeychainError{Operation: "get", Account: k.String(), Err: err}
		}
	}

	if ok {
		s.noteSource(k, source)
		return value, true, nil
	}
	return "", false, nil
}

// APIKey returns the api key, or "" for an anonymous client.
func (s *Store) APIKey() (string, error) {
	key, _, err := s.Lookup(APIKey)
	return key, err
}

// BaseURL returns the configured API base URL or the production default.
// A value not ending in /v1 is warned about once per process.
func (s *Store) BaseURL() string {
	value, _, err := s.Lookup(BaseURL)
	if err != nil || value == "" {
		value = constants.DefaultBaseURL
	}
	value = strings.TrimRight(value, "/")

	if !strings.HasSuffix(value, constants.BaseURLSuffix) {
		s.warnBaseURL.Do(func() {
			s.logger.Warn().Msgf("base url %s does not end with %s, requests may fail", value, constants.BaseURLSuffix)
		})
	}
	return value
}

// ConfigPath returns the dotfile path: SIDEKO_CONFIG_PATH verbatim, else $HOME/.sideko.
func (s *Store) ConfigPath() (string, error) {
	if value, _, ok := s.envValue(ConfigPath); ok {
		return value, nil
	}

	home, err := s.homeDir()
	if err != nil || home == "" {
		if err == nil {
			err = errors.New("home directory is empty")
		}
		return "", pkgerrors.NewConfigError("config path", "could not determine home directory, set "+ConfigPath.String(), err)
	}
	return filepath.Join(home, constants.DotfileName), nil
}

// SetProcessEnv sets k for the rest of this process only.
func (s *Store) SetProcessEnv(k Key, value string) error {
	s.mu.Lock()
	delete(s.fromDotfile, k.String())
	s.mu.Unlock()
	return os.Setenv(k.String(), value)
}

// SetEnv upserts k in the dotfile and the process environment.
func (s *Store) SetEnv(k Key, value string) error {
	path, err := s.ConfigPath()
	if err != nil {
		return err
	}

	line, err := godotenv.Marshal(map[string]string{k.String(): value})
	if err != nil {
		return pkgerrors.NewConfigError("dotfile", "failed to encode "+k.String(), err)
	}
	if err := rewriteDotfile(path, k.String(), line); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Setenv(k.String(), value); err != nil {
		return pkgerrors.WrapIO("set env", k.String(), err)
	}
	s.fromDotfile[k.String()] = value
	return nil
}

// UnsetEnv removes k from the process environment and the dotfile.
func (s *Store) UnsetEnv(k Key) error {
	s.mu.Lock()
	for _, name := range k.envNames() {
		_ = os.Unsetenv(name)
		delete(s.fromDotfile, name)
	}
	s.mu.Unlock()

	path, err := s.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return rewriteDotfile(path, k.String(), "")
}

// SetKeyring upserts the keychain entry for k.
func (s *Store) SetKeyring(k Key, value string) error {
	if err := s.keychain.Set(constants.AppName, k.String(), value); err != nil {
		return &pkgerrors.KeychainError{Operation: "set", Account: k.String(), Err: err}
	}
	return nil
}

// UnsetKeyring deletes the keychain entry for k. A missing entry is not an error.
func (s *Store) UnsetKeyring(k Key) error {
	err := s.keychain.Delete(constants.AppName, k.String())
	if err == nil || errors.Is(err, pkgerrors.ErrKeychainNoEntry) {
		return nil
	}
	return &pkgerrors.KeychainError{Operation: "delete", Account: k.String(), Err: err}
}

func (s *Store) injected(name, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded, ok := s.fromDotfile[name]
	return ok && loaded == value
}

func (s *Store) noteSource(k Key, source string) {
	if source == deprecatedBaseURLEnv {
		s.warnAlias.Do(func() {
			s.logger.Warn().Msgf("%s is deprecated, use %s instead", deprecatedBaseURLEnv, k.String())
		})
	}
}
