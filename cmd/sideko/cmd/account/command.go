// Package account provides the account command and its subcommands.
package account

import (
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
)

// NewCommand creates the account command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		GroupID: "management",
		Short:   "Manage your Sideko account",
	}
	cmd.AddCommand(newGetMyAPIKeyCommand(app))
	return cmd
}

func newGetMyAPIKeyCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "get-my-api-key",
		Short: "Copy your personal api key to the clipboard",
		Long: `Get-my-api-key fetches your personal Sideko api key and copies it to the
clipboard. The key is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			key, err := client.GetAPIKey(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.CopyToClipboard(key.APIKey); err != nil {
				return err
			}
			logger := app.Logger()
			logger.Info().Msg(styles.Success("api key set to clipboard."))
			logger.Info().Msgf("%s save the key in a secure location.", styles.Yellow("⚠️ ⚠️ ⚠️"))
			return nil
		},
	}
}
