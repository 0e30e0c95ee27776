// Package auth logs the CLI in to Sideko, either through a browser round
// trip to a loopback callback server or with an api key given directly.
package auth

import (
	"context"
	_ "embed"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/internal/config"
	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

var (
	//go:embed html/success.html
	successHTML []byte

	//go:embed html/failure.html
	failureHTML []byte
)

// API is the part of the Sideko API the login flow talks to.
type API interface {
	LoginURL(cliOutput string, port int) string
	ExchangeCode(ctx context.Context, code string) (*sideko.APIKey, error)
}

// CredentialStore persists the api key obtained by a login.
type CredentialStore interface {
	SetKeyring(k config.Key, value string) error
	SetProcessEnv(k config.Key, value string) error
}

// Flow runs the browser login.
type Flow struct {
	api     API
	store   CredentialStore
	openURL func(string) error
	host    string
	port    int
	timeout time.Duration
	grace   time.Duration
	logger  *zerolog.Logger
}

// Option configures a Flow.
type Option func(*Flow)

// WithOpener replaces the browser launcher.
func WithOpener(open func(string) error) Option {
	return func(f *Flow) {
		f.openURL = open
	}
}

// WithPort sets the loopback port. Zero picks a free port.
func WithPort(port int) Option {
	return func(f *Flow) {
		f.port = port
	}
}

// WithTimeout sets how long to wait for the browser to call back.
func WithTimeout(d time.Duration) Option {
	return func(f *Flow) {
		f.timeout = d
	}
}

// WithRedirectGrace sets how long the server stays up after the login
// callback for the browser to load the result page.
func WithRedirectGrace(d time.Duration) Option {
	return func(f *Flow) {
		f.grace = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// NewFlow creates a login flow against api that stores the key in store.
func NewFlow(api API, store CredentialStore, opts ...Option) *Flow {
	f := &Flow{
		api:     api,
		store:   store,
		openURL: browser.OpenURL,
		host:    "127.0.0.1",
		port:    constants.LoginPort,
		timeout: constants.LoginTimeout,
		grace:   3 * time.Second,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run opens the login page in a browser and waits for the callback. output
// is the dotfile the server records for this CLI. The key is written to the
// keychain before Run returns nil.
func (f *Flow) Run(ctx context.Context, output string) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(f.host, strconv.Itoa(f.port)))
	if err != nil {
		return &errors.GeneralError{
			Message: fmt.Sprintf("failed to start login callback server on port %d", f.port),
			Debug:   err.Error(),
			Err:     err,
		}
	}
	port := ln.Addr().(*net.TCPAddr).Port
	waitSecs := int(f.timeout.Seconds())

	s := &session{flow: f, done: make(chan error, 1)}
	srv := &http.Server{
		Handler:           chain(recovery(f.logger), requestLogger(f.logger))(s.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	f.logger.Debug().Msgf("starting callback server on port %d... will wait %d seconds for auth callback", port, waitSecs)

	loginURL := f.api.LoginURL(output, port)
	f.logger.Info().Msg("continue by logging in with the browser popup...")
	if err := f.openURL(loginURL); err != nil {
		f.logger.Warn().Msgf("failed opening browser for login, please navigate to `%s` to complete login", loginURL)
		f.logger.Debug().Err(err).Msg("browser launch error")
	}
	f.logger.Debug().Msgf("if the browser does not open, you can log in via this link: %s", loginURL)

	timer := time.NewTimer(f.timeout)
	defer timer.Stop()

	select {
	case result := <-s.done:
		f.shutdown(srv)
		return f.report(result)
	case err := <-serveErr:
		s.close()
		_ = srv.Close()
		return &errors.GeneralError{Message: "login callback server stopped unexpectedly", Debug: err.Error(), Err: err}
	case <-timer.C:
		// a key stored before the deadline is a completed login, even if
		// the browser has not loaded the result page yet
		if s.close() {
			f.shutdown(srv)
			return f.report(nil)
		}
		_ = srv.Close()
		return errors.NewTimeoutError("login", fmt.Sprintf("authentication was not completed within %d seconds", waitSecs))
	case <-ctx.Done():
		stored := s.close()
		_ = srv.Close()
		if stored {
			return f.report(nil)
		}
		return errors.Join(errors.ErrCanceled, ctx.Err())
	}
}

// report logs the outcome of a browser login.
func (f *Flow) report(err error) error {
	if err == nil {
		f.logger.Info().Msg(styles.Success("CLI authenticated"))
	}
	return err
}

func (f *Flow) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		f.logger.Debug().Err(err).Msg("forcing login callback server closed")
		_ = srv.Close()
	}
}

// StoreKey skips the browser and saves a key supplied by the user.
func StoreKey(store CredentialStore, key string, logger *zerolog.Logger) error {
	if key == "" {
		return errors.NewValidationError("key", "", "api key must not be empty")
	}
	if err := store.SetKeyring(config.APIKey, key); err != nil {
		return err
	}
	logger.Info().Msg(styles.Success("CLI authenticated"))
	return nil
}

// session is the state of one callback server.
type session struct {
	flow *Flow

	mu      sync.Mutex
	stored  bool
	closed  bool
	failure error

	once sync.Once
	done chan error
}

func (s *session) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", s.handleLogin)
	mux.HandleFunc("GET /success", s.handleSuccess)
	mux.HandleFunc("GET /failure", s.handleFailure)
	return mux
}

func (s *session) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stored {
		http.Redirect(w, r, "/success", http.StatusSeeOther)
		return
	}
	if s.closed {
		http.Error(w, "login session has ended", http.StatusGone)
		return
	}

	err := s.login(r)
	if err != nil {
		s.failure = err
		http.Redirect(w, r, "/failure", http.StatusSeeOther)
	} else {
		s.stored = true
		http.Redirect(w, r, "/success", http.StatusSeeOther)
	}

	// the browser normally follows the redirect and finishes the session;
	// this covers clients that do not
	time.AfterFunc(s.flow.grace, func() { s.finish(err) })
}

func (s *session) login(r *http.Request) error {
	logger := s.flow.logger
	query := r.URL.Query()
	code, output := query.Get("code"), query.Get("output")
	if code == "" {
		logger.Error().Msg("login callback did not include an auth code")
		return errors.NewGeneralError("authentication failed: no auth code received")
	}

	key, err := s.flow.api.ExchangeCode(r.Context(), code)
	if err != nil {
		logger.Error().Msg("failed exchanging auth code for api key")
		return &errors.GeneralError{
			Message: "failed exchanging auth code for api key",
			Debug:   errors.DebugInfo(err),
			Err:     err,
		}
	}

	if output != "" {
		if err := s.flow.store.SetProcessEnv(config.ConfigPath, output); err != nil {
			logger.Error().Msg("failed recording config path")
			return err
		}
	}
	if err := s.flow.store.SetKeyring(config.APIKey, key.APIKey); err != nil {
		logger.Error().Msg(err.Error())
		return err
	}
	return nil
}

func (s *session) handleSuccess(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	failure := s.failure
	s.mu.Unlock()

	if failure != nil {
		writeHTML(w, failureHTML)
		s.finish(failure)
		return
	}
	writeHTML(w, successHTML)
	s.finish(nil)
}

func (s *session) handleFailure(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	failure := s.failure
	s.mu.Unlock()

	if failure == nil {
		failure = errors.NewGeneralError("authentication failed")
	}
	writeHTML(w, failureHTML)
	s.flow.logger.Error().Msg(styles.Failure("CLI authentication failed"))
	s.finish(failure)
}

// close stops the session from accepting a login and reports whether a key
// was already stored. It waits for an in-progress code exchange.
func (s *session) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.stored
}

// finish reports the first outcome; later calls are ignored.
func (s *session) finish(err error) {
	s.once.Do(func() {
		s.done <- err
	})
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
