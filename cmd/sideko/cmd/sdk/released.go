package sdk

import (
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/internal/sdkupdate"
	"github.com/sideko-inc/sideko/internal/validation"
)

func newReleasedCommand(app appcontext.Interface) *cobra.Command {
	var repo, id string
	cmd := &cobra.Command{
		Use:   "released",
		Short: "Mark an SDK as released",
		Long: `Released records that an SDK version has been published. The sdk id is
read from the repository's .sdk.json unless --id is given.`,
		Example: `  sideko sdk released --repo ./my-sdk
  sideko sdk released --id 1a2b3c4d-0000-4000-8000-000000000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			logger := app.Logger()
			if id == "" {
				if err := validation.Dir(repo, false); err != nil {
					return err
				}
				if id, err = sdkupdate.New(client, logger).SDKID(repo); err != nil {
					return err
				}
			}
			sdk, err := client.UpdateSDKMetadata(cmd.Context(), id, true)
			if err != nil {
				return err
			}
			logger.Info().Msg(styles.Success(sdk.Name + " v" + sdk.Version + " (" + string(sdk.Language) + ") marked as released"))
			return nil
		},
	}
	cmd.Flags().StringVar(&repo, "repo", "./", "path to the root of the sdk repository")
	cmd.Flags().StringVar(&id, "id", "", "sdk id to mark as released, skips reading it from --repo")
	return cmd
}
