// Package editor opens files in the user's editor for review.
package editor

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/cmd/prompt"
	"github.com/sideko-inc/sideko/pkg/errors"
)

// Command returns the editor to launch, following git's precedence:
// GIT_EDITOR, VISUAL, EDITOR, then the platform default.
func Command() string {
	for _, name := range []string{"GIT_EDITOR", "VISUAL", "EDITOR"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// Runner launches an editor on a file and waits for it to exit.
type Runner func(ctx context.Context, editor, path string) error

// runEditor splits editor on whitespace so values like "code --wait" work.
func runEditor(ctx context.Context, editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return errors.New("no editor configured")
	}
	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...) //nolint:gosec // editor is chosen by the user
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Reviewer opens a file until the user confirms the review is done.
type Reviewer struct {
	prompter prompt.Prompter
	logger   *zerolog.Logger
	run      Runner
}

// NewReviewer creates a Reviewer. A nil run launches the real editor.
func NewReviewer(p prompt.Prompter, logger *zerolog.Logger, run Runner) *Reviewer {
	if run == nil {
		run = runEditor
	}
	return &Reviewer{prompter: p, logger: logger, run: run}
}

// Review opens path in the editor, asking after each session whether the
// review is complete.
func (r *Reviewer) Review(ctx context.Context, path string) error {
	editor := Command()
	r.logger.Debug().Msgf("using editor: %s", editor)

	for {
		r.logger.Info().Msgf("opening editor for file: %s - please review the sdk config and save any changes before closing", path)
		if err := r.run(ctx, editor, path); err != nil {
			return &errors.IOError{
				Operation: "open",
				Path:      path,
				Message:   "failed to open '" + path + "' in editor: " + err.Error(),
				Err:       err,
			}
		}

		done, err := r.prompter.Confirm("have you completed reviewing the sdk config?", "'n' to open the sdk config again", true)
		if err != nil {
			return err
		}
		if done {
			r.logger.Info().Msg("sdk config review complete")
			return nil
		}
	}
}
