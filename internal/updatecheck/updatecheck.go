// Package updatecheck asks the Sideko API whether the running CLI version is
// still supported before a command runs.
package updatecheck

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// Checker fetches update notices for a CLI version.
type Checker interface {
	CheckUpdates(ctx context.Context, cliVersion string) ([]sideko.CLIUpdate, error)
}

// Notice is a non-blocking update message shown after a command succeeds.
type Notice struct {
	Severity sideko.UpdateSeverity
	Message  string
}

// Check gates the current command. A required notice is logged at error
// level and returns an error wrapping errors.ErrUpdateRequired. Remaining
// notices are returned in server order. Failing to reach the server only
// produces a warning.
func Check(ctx context.Context, checker Checker, version string, logger *zerolog.Logger) ([]Notice, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.UpdateCheckTimeout)
	defer cancel()

	updates, err := checker.CheckUpdates(ctx, strings.TrimPrefix(version, "v"))
	if err != nil {
		if errors.IsCanceled(err) && ctx.Err() != context.DeadlineExceeded {
			return nil, err
		}
		logger.Warn().Msg("failed checking for cli updates")
		logger.Debug().Err(err).Msg("update check error")
		return nil, nil
	}

	var notices []Notice
	for _, u := range updates {
		if u.Severity == sideko.SeverityRequired {
			logger.Error().Msg(u.Message)
			return nil, &errors.GeneralError{
				Message: "must update cli to continue",
				Err:     errors.ErrUpdateRequired,
			}
		}
		notices = append(notices, Notice{Severity: u.Severity, Message: u.Message})
	}
	return notices, nil
}

// Emit logs notices: suggested updates as warnings, everything else as info.
func Emit(logger *zerolog.Logger, notices []Notice) {
	for _, n := range notices {
		if n.Severity == sideko.SeveritySuggested {
			logger.Warn().Msg(n.Message)
			continue
		}
		logger.Info().Msg(n.Message)
	}
}
