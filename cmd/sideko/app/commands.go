package app

import (
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/cmd/sideko/cmd/account"
	"github.com/sideko-inc/sideko/cmd/sideko/cmd/api"
	configcmd "github.com/sideko-inc/sideko/cmd/sideko/cmd/config"
	"github.com/sideko-inc/sideko/cmd/sideko/cmd/doc"
	"github.com/sideko-inc/sideko/cmd/sideko/cmd/login"
	"github.com/sideko-inc/sideko/cmd/sideko/cmd/logout"
	"github.com/sideko-inc/sideko/cmd/sideko/cmd/sdk"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(login.NewCommand(a))
	rootCmd.AddCommand(logout.NewCommand(a))
	rootCmd.AddCommand(api.NewCommand(a))
	rootCmd.AddCommand(sdk.NewCommand(a))
	rootCmd.AddCommand(doc.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(account.NewCommand(a))
	rootCmd.AddCommand(configcmd.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("sideko %s\n", a.version)
			if a.config.Verbose > 0 {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
