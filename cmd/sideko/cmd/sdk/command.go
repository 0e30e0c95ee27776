// Package sdk provides the sdk command and its subcommands.
package sdk

import (
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
)

// NewCommand creates the sdk command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sdk",
		GroupID: "core",
		Short:   "Generate, customize and update SDKs",
		Long: `Generate SDKs from your APIs and keep them up to date.

Start with "sideko sdk init" to be walked through picking an API, creating an
SDK config and generating SDKs in the languages of your choice.`,
		Example: `  sideko sdk init
  sideko sdk create --config ./sdk-config.yaml --lang python
  sideko sdk update --config ./sdk-config.yaml --repo ./my-sdk --version patch`,
	}

	cmd.AddCommand(
		newInitCommand(app),
		newConfigCommand(app),
		newCreateCommand(app),
		newUpdateCommand(app),
		newReleasedCommand(app),
	)
	return cmd
}
