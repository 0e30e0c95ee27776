package app

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/cmd/globals"
	"github.com/sideko-inc/sideko/internal/cmd/hints"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/internal/config"
	"github.com/sideko-inc/sideko/internal/updatecheck"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
)

// Execute runs the sideko CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "sideko",
		Short:   "Generate SDKs and deploy documentation with Sideko",
		Version: a.version,
		Long: `Sideko turns OpenAPI specifications into SDKs and documentation.

Log in once with "sideko login", upload API versions, generate and update
SDKs, and deploy documentation sites from the command line.`,
		PersistentPreRunE:  a.setupCommand,
		PersistentPostRunE: a.finishCommand,
		SilenceUsage:       true,
		SilenceErrors:      true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	globals.AddFlags(rootCmd)
	rootCmd.SetVersionTemplate("sideko {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It applies global flags,
// loads the dotfile and gates the command on the server's update policy.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	a.config.UpdateFromFlags(globals.Parse(cmd))
	if a.config.NoColor {
		styles.Disable()
	}
	*a.logger = NewLogger(a.config, a.logOut)

	if a.config.ConfigPath != "" {
		if err := a.store.SetProcessEnv(config.ConfigPath, a.config.ConfigPath); err != nil {
			return errors.WrapIO("set env", config.ConfigPath.String(), err)
		}
	}
	if err := a.store.Load(); err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), a.logger)
	cmd.SetContext(ctx)

	if skipUpdateCheck(cmd) {
		return nil
	}
	notices, err := updatecheck.Check(ctx, a.anonymousClient(), a.version, a.logger)
	if err != nil {
		return err
	}
	a.notices = notices
	return nil
}

// finishCommand shows update notices once the command succeeded.
func (a *App) finishCommand(_ *cobra.Command, _ []string) error {
	updatecheck.Emit(a.logger, a.notices)
	return nil
}

// skipUpdateCheck exempts shell completion plumbing and help.
func skipUpdateCheck(cmd *cobra.Command) bool {
	name := cmd.Name()
	return strings.HasPrefix(name, "__") || name == "help" || name == "version"
}

// ReportError logs a failed command the way users see it: the message at
// error level, debugging detail at debug level and hints for recovering.
func (a *App) ReportError(err error) {
	if err == nil {
		return
	}
	logger := a.logger

	logger.Error().Msg(err.Error())
	if debug := errors.DebugInfo(err); debug != "" {
		logger.Debug().Msg(debug)
	}

	verbose := logger.GetLevel() <= zerolog.DebugLevel
	for _, h := range hints.ForError(hints.Context{Err: err, Verbose: verbose}) {
		logger.Info().Msg(h.String())
	}
}

// ExitOnError reports err and exits with status 1.
func (a *App) ExitOnError(err error) {
	if err != nil {
		a.ReportError(err)
		os.Exit(1)
	}
}

// ExitOnError is a helper that prints an error and exits with status 1.
// It is used in main.go before an App exists.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
