package sdk

import (
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/sdkupdate"
	"github.com/sideko-inc/sideko/internal/validation"
)

func newUpdateCommand(app appcontext.Interface) *cobra.Command {
	req := sdkupdate.Request{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an SDK to implement changes to its API",
		Long: `Update regenerates a Sideko SDK repository in place. The repository must
be the root of a clean git working tree containing the .sdk.json file written
when the SDK was created.

The changes are applied as a git patch, so they can be reviewed with
"git diff" before being committed.`,
		Example: `  sideko sdk update --config ./sdk-config.yaml --repo ./my-sdk --version 1.2.0
  sideko sdk update --config ./sdk-config.yaml --repo . --version minor --api-version 2.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.SDKConfig(req.ConfigPath); err != nil {
				return err
			}
			if err := validation.Dir(req.RepoPath, false); err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			_, err = sdkupdate.New(client, app.Logger()).Update(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVar(&req.ConfigPath, "config", "", "path to the sdk config")
	cmd.Flags().StringVar(&req.RepoPath, "repo", "./", "path to the root of the sdk repository")
	cmd.Flags().StringVar(&req.SDKVersion, "version", "", "semantic version of the updated sdk (e.g. `2.1.5`) or version bump (`patch`, `minor`, `major`, `rc`)")
	cmd.Flags().StringVar(&req.APIVersion, "api-version", "latest", "api version to update the sdk with (e.g. `2.1.5`)")
	cmd.Flags().BoolVar(&req.AllowLintErrors, "allow-lint-errors", false, "update the sdk even if the api version has lint errors")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}
