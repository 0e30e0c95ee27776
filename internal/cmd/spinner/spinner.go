// Package spinner shows progress for long-running calls. On a terminal at
// info level it animates a single line whose text can change; otherwise each
// change becomes an ordinary log line so piped output stays readable.
package spinner

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/cmd/styles"
)

// Spinner is a progress indicator with updatable text.
type Spinner struct {
	mu      sync.Mutex
	logger  *zerolog.Logger
	anim    *spinner.Spinner
	text    string
	stopped bool
}

// Option configures a Spinner.
type Option func(*config)

type config struct {
	out         io.Writer
	interactive *bool
}

// WithWriter sets where the animation is drawn. Defaults to stderr.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

// WithInteractive forces animated or plain mode.
func WithInteractive(interactive bool) Option {
	return func(c *config) {
		c.interactive = &interactive
	}
}

// Start begins a spinner showing text.
func Start(text string, logger *zerolog.Logger, opts ...Option) *Spinner {
	cfg := &config{out: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}

	interactive := isTerminal(cfg.out) && logger.GetLevel() == zerolog.InfoLevel
	if cfg.interactive != nil {
		interactive = *cfg.interactive
	}

	s := &Spinner{logger: logger, text: text}
	if !interactive {
		logger.Info().Msg(text)
		return s
	}

	s.anim = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(cfg.out),
		spinner.WithHiddenCursor(true),
	)
	s.anim.Suffix = " " + text
	s.anim.Start()
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Text returns the current text.
func (s *Spinner) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// UpdateText replaces the text. Repeating the current text is a no-op.
func (s *Spinner) UpdateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || text == s.text {
		return
	}
	s.text = text
	if s.anim == nil {
		s.logger.Info().Msg(text)
		return
	}
	s.anim.Lock()
	s.anim.Suffix = " " + text
	s.anim.Unlock()
}

// StopSuccess stops the spinner and logs msg with a success glyph.
func (s *Spinner) StopSuccess(msg string) {
	if s.stop() {
		s.logger.Info().Msg(styles.Success(msg))
	}
}

// StopWarn stops the spinner and logs msg as a warning.
func (s *Spinner) StopWarn(msg string) {
	if s.stop() {
		s.logger.Warn().Msg(styles.Warning(msg))
	}
}

// StopError stops the spinner and logs msg as an error.
func (s *Spinner) StopError(msg string) {
	if s.stop() {
		s.logger.Error().Msg(styles.Failure(msg))
	}
}

// Stop clears the spinner without a message. Safe to defer alongside the
// other Stop methods.
func (s *Spinner) Stop() {
	s.stop()
}

func (s *Spinner) stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.stopped = true
	if s.anim != nil {
		s.anim.Stop()
	}
	return true
}
