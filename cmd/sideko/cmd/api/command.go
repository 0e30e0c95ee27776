// Package api provides the api command and its subcommands.
package api

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/globals"
	"github.com/sideko-inc/sideko/internal/cmd/output"
	"github.com/sideko-inc/sideko/internal/cmd/table"
	"github.com/sideko-inc/sideko/internal/validation"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// NewCommand creates the api command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "api",
		GroupID: "core",
		Short:   "Manage APIs and API versions",
		Long: `Manage the APIs registered with Sideko. Each API has one or more
versions, each backed by an OpenAPI document.`,
		Example: `  sideko api list
  sideko api create --name my-api --version 0.1.0 --spec ./openapi.yaml
  sideko api version list --name my-api`,
	}

	cmd.AddCommand(
		newListCommand(app),
		newCreateCommand(app),
		newStatsCommand(app),
		newLintCommand(app),
		newVersionCommand(app),
	)
	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all APIs",
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
			apis, err := client.ListAPIs(ctx)
			if err != nil {
				return err
			}
			if format == output.FormatRaw {
				return output.Write(app.Stdout(), format, apis, nil)
			}
			subdomain, err := orgSubdomain(ctx, client)
			if err != nil {
				return err
			}
			return output.Write(app.Stdout(), format, apis, func() any {
				return table.APIs(apis, subdomain)
			})
		},
	}
	globals.AddDisplayFlags(cmd)
	return cmd
}

type createFlags struct {
	name            string
	version         string
	spec            string
	disableMock     bool
	allowLintErrors bool
}

func newCreateCommand(app appcontext.Interface) *cobra.Command {
	flags := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new API with an initial version",
		Example: `  sideko api create --name my-api --version 0.1.0 --spec ./openapi.yaml
  sideko api create --name my-api --version 0.1.0 --spec ./openapi.json --disable-mock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := globals.ParseDisplay(cmd).Format()
			if err != nil {
				return err
			}
			if err := validation.APIName(flags.name); err != nil {
				return err
			}
			if err := validation.OpenAPIFile(flags.spec); err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			spec, err := client.InitAPI(ctx, sideko.InitAPIRequest{
				Name:              flags.name,
				Version:           flags.version,
				OpenAPIPath:       flags.spec,
				MockServerEnabled: !flags.disableMock,
				AllowLintErrors:   flags.allowLintErrors,
			})
			if err != nil {
				return err
			}
			if format == output.FormatRaw {
				return output.Write(app.Stdout(), format, spec, nil)
			}
			subdomain, err := orgSubdomain(ctx, client)
			if err != nil {
				return err
			}
			return output.Write(app.Stdout(), format, spec, func() any {
				apiTable := table.APIs([]sideko.API{spec.API}, subdomain)
				apiTable.Title = "API"
				versionTable := table.Specs([]sideko.APISpec{*spec}, subdomain)
				versionTable.Title = "Initial Version"
				return []output.Data{apiTable, versionTable}
			})
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "name of the api (alphanumeric characters and dashes, e.g. `my-api`)")
	cmd.Flags().StringVar(&flags.version, "version", "", "semantic version of the initial version (e.g. `2.1.5`)")
	cmd.Flags().StringVar(&flags.spec, "spec", "", "path to the OpenAPI document of the initial version (YAML or JSON)")
	cmd.Flags().BoolVar(&flags.disableMock, "disable-mock", false, "disable the mock server for the initial version")
	cmd.Flags().BoolVar(&flags.allowLintErrors, "allow-lint-errors", false, "create the version even if the OpenAPI document has lint errors")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("version")
	_ = cmd.MarkFlagRequired("spec")
	globals.AddDisplayFlags(cmd)
	return cmd
}

func newStatsCommand(app appcontext.Interface) *cobra.Command {
	var name, version string
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Show operation counts of an API version",
		Example: `  sideko api stats --name my-api --version 1.2.0`,
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
			stats, err := client.GetStats(cmd.Context(), name, version)
			if err != nil {
				return err
			}
			return output.Write(app.Stdout(), format, stats, func() any {
				return table.Stats(stats)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "api name or id, e.g. my-api")
	cmd.Flags().StringVar(&version, "version", "latest", "api version, e.g. 1.2.0 or latest")
	_ = cmd.MarkFlagRequired("name")
	globals.AddDisplayFlags(cmd)
	return cmd
}

func orgSubdomain(ctx context.Context, client *sideko.Client) (string, error) {
	org, err := client.GetOrganization(ctx)
	if err != nil {
		return "", err
	}
	return org.Subdomain, nil
}
