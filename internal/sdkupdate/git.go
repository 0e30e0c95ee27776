package sdkupdate

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/sideko-inc/sideko/pkg/errors"
)

// git runs a git subcommand in dir and returns its stdout.
func git(ctx context.Context, dir, operation string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // arguments are fixed by callers
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return stdout.String(), errors.NewProcessError(
			operation,
			"git "+strings.Join(args, " "),
			stdout.String(),
			stderr.String(),
			exitCode,
			err,
		)
	}
	return stdout.String(), nil
}
