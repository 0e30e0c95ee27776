// Package login provides the login command.
package login

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/auth"
	"github.com/sideko-inc/sideko/pkg/constants"
)

// Flags holds the login command's flags.
type Flags struct {
	Key     string
	Output  string
	Port    int
	Timeout time.Duration
}

// NewCommand creates the login command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "login",
		GroupID: "core",
		Short:   "Authenticate the CLI interactively via the browser",
		Long: `Login opens the Sideko login page in your browser and waits for it to
hand an api key back to the CLI. The key is stored in the OS keychain.

Pass --key to store an existing api key without opening the browser.`,
		Example: `  sideko login
  sideko login --key "$MY_SIDEKO_KEY"
  sideko login --output ./.sideko`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Key, "key", "",
		"api key to store instead of logging in with the browser")
	cmd.Flags().StringVar(&flags.Output, "output", "",
		"path of the sideko config file to record (default $HOME/.sideko)")
	cmd.Flags().IntVar(&flags.Port, "port", constants.LoginPort,
		"loopback port for the login callback")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", constants.LoginTimeout,
		"how long to wait for the browser login")
	_ = cmd.Flags().MarkHidden("port")
	_ = cmd.Flags().MarkHidden("timeout")

	return cmd
}

// Run executes the login command.
func Run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	logger := app.Logger()
	store := app.Store()

	if flags.Key != "" {
		return auth.StoreKey(store, flags.Key, logger)
	}

	output := flags.Output
	if output == "" {
		path, err := store.ConfigPath()
		if err != nil {
			return err
		}
		output = path
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	flow := auth.NewFlow(client, store,
		auth.WithOpener(app.OpenBrowser),
		auth.WithLogger(logger),
		auth.WithPort(flags.Port),
		auth.WithTimeout(flags.Timeout),
	)
	return flow.Run(cmd.Context(), output)
}
