// Package doc provides the doc command and its subcommands.
package doc

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/globals"
	"github.com/sideko-inc/sideko/internal/cmd/output"
	"github.com/sideko-inc/sideko/internal/cmd/table"
	"github.com/sideko-inc/sideko/internal/deploy"
	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// NewCommand creates the doc command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doc",
		GroupID: "core",
		Short:   "Manage documentation websites",
		Example: `  sideko doc list
  sideko doc deploy --name my-docs --prod`,
	}
	cmd.AddCommand(newListCommand(app), newDeployCommand(app))
	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all documentation projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := globals.ParseDisplay(cmd).Format()
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			docs, err := client.ListDocs(ctx)
			if err != nil {
				return err
			}
			if format == output.FormatRaw {
				return output.Write(app.Stdout(), format, docs, nil)
			}
			org, err := client.GetOrganization(ctx)
			if err != nil {
				return err
			}
			return output.Write(app.Stdout(), format, docs, func() any {
				return table.Docs(docs, org.Subdomain)
			})
		},
	}
	globals.AddDisplayFlags(cmd)
	return cmd
}

type deployFlags struct {
	name     string
	prod     bool
	noWait   bool
	interval time.Duration
	timeout  time.Duration
}

func newDeployCommand(app appcontext.Interface) *cobra.Command {
	flags := &deployFlags{}
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a documentation project",
		Long: `Deploy publishes a documentation project to its preview site, or to
production with --prod, and waits until the deployment completes.`,
		Example: `  sideko doc deploy --name my-docs
  sideko doc deploy --name my-docs --prod --no-wait`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			target := sideko.TargetPreview
			if flags.prod {
				target = sideko.TargetProduction
			}
			poller := deploy.NewPoller(client, app.Logger(),
				deploy.WithInterval(flags.interval),
				deploy.WithDeadline(flags.timeout),
			)
			_, err = poller.Deploy(cmd.Context(), deploy.Request{
				DocName: flags.name,
				Target:  target,
				NoWait:  flags.noWait,
			})
			return err
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "doc project name or id, e.g. my-docs")
	cmd.Flags().BoolVar(&flags.prod, "prod", false, "deploy to production (default: preview)")
	cmd.Flags().BoolVar(&flags.noWait, "no-wait", false, "exit after the deployment is triggered instead of waiting for it to complete")
	cmd.Flags().DurationVar(&flags.interval, "poll-interval", constants.DeploymentPollInterval, "pause between deployment status checks")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", constants.DeploymentTimeout, "how long to wait for the deployment")
	_ = cmd.Flags().MarkHidden("poll-interval")
	_ = cmd.Flags().MarkHidden("timeout")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
