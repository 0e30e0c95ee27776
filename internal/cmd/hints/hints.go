// Package hints suggests what a user can do after a command fails.
package hints

import (
	"fmt"
	"strings"

	"github.com/sideko-inc/sideko/internal/cmd/emoji"
	"github.com/sideko-inc/sideko/pkg/errors"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// NewCommand creates a new hint with a specific command.
func NewCommand(message, command string) *Hint {
	return &Hint{Message: message, Command: command}
}

// String returns a string representation of the hint.
func (h *Hint) String() string {
	if h.Command == "" {
		return emoji.Prefix(emoji.Hint, h.Message)
	}
	return emoji.Prefix(emoji.Hint, fmt.Sprintf("%s: run %q", h.Message, h.Command))
}

// Context describes the failed invocation.
type Context struct {
	Err     error
	Verbose bool // debug or trace logging is active
}

// ForError returns the hints that apply to a failed command, most specific first.
func ForError(ctx Context) []*Hint {
	if ctx.Err == nil {
		return nil
	}

	var out []*Hint
	switch {
	case errors.IsUnauthenticated(ctx.Err):
		out = append(out, NewCommand("authenticate the cli", "sideko login"))
	case errors.IsNotFound(ctx.Err):
		out = append(out, New("check the name against `sideko api list` or `sideko doc list`"))
	case errors.Is(ctx.Err, errors.ErrUpdateRequired):
		out = append(out, New("install the latest release of the cli"))
	case errors.Is(ctx.Err, errors.ErrDirtyTree):
		out = append(out, NewCommand("stash local changes", "git stash"))
	case errors.Is(ctx.Err, errors.ErrPatchRejected):
		out = append(out, New("inspect the saved patch and apply it by hand with `git apply --reject`"))
	}

	if !ctx.Verbose {
		out = append(out, New("Re-run the command in verbose mode (-v/-vv) for more information"))
	}
	return out
}

// Join renders hints one per line.
func Join(hs []*Hint) string {
	lines := make([]string, 0, len(hs))
	for _, h := range hs {
		lines = append(lines, h.String())
	}
	return strings.Join(lines, "\n")
}
