// Package logout provides the logout command.
package logout

import (
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/internal/config"
)

// NewCommand creates the logout command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: "core",
		Short:   "Remove the stored api key",
		Long: `Logout removes the api key from this process, from the sideko config
file and from the OS keychain.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store := app.Store()
			if err := store.UnsetEnv(config.APIKey); err != nil {
				return err
			}
			if err := store.UnsetKeyring(config.APIKey); err != nil {
				return err
			}
			app.Logger().Info().Msg(styles.Success("logout successful"))
			return nil
		},
	}
}
