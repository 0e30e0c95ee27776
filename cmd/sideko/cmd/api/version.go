package api

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/globals"
	"github.com/sideko-inc/sideko/internal/cmd/output"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/internal/cmd/table"
	"github.com/sideko-inc/sideko/internal/utils/ptr"
	"github.com/sideko-inc/sideko/internal/validation"
	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

func newVersionCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Manage the versions of an API",
	}
	cmd.AddCommand(
		newVersionListCommand(app),
		newVersionCreateCommand(app),
		newVersionUpdateCommand(app),
		newVersionDownloadCommand(app),
	)
	return cmd
}

func newVersionListCommand(app appcontext.Interface) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the versions of an API",
		Example: `  sideko api version list --name my-api --limit 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			display := globals.ParseDisplay(cmd)
			format, err := display.Format()
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			specs, err := client.ListSpecs(ctx, name)
			if err != nil {
				return err
			}
			if display.Limit > 0 && len(specs) > display.Limit {
				specs = specs[:display.Limit]
			}
			return writeSpecs(ctx, app, client, format, specs, "")
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "api name or id, e.g. my-api")
	_ = cmd.MarkFlagRequired("name")
	globals.AddDisplayFlags(cmd).AddLimitFlag(cmd, 0, "limit results to the most recent N versions")
	return cmd
}

type versionCreateFlags struct {
	name            string
	version         string
	spec            string
	notes           string
	disableMock     bool
	allowLintErrors bool
}

func newVersionCreateCommand(app appcontext.Interface) *cobra.Command {
	flags := &versionCreateFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new version of an API",
		Example: `  sideko api version create --name my-api --version 1.3.0 --spec ./openapi.yaml
  sideko api version create --name my-api --version minor --spec ./openapi.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := globals.ParseDisplay(cmd).Format()
			if err != nil {
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
			spec, err := client.CreateSpec(ctx, sideko.CreateSpecRequest{
				APIName:           flags.name,
				Version:           flags.version,
				OpenAPIPath:       flags.spec,
				Notes:             flags.notes,
				MockServerEnabled: !flags.disableMock,
				AllowLintErrors:   flags.allowLintErrors,
			})
			if err != nil {
				return err
			}
			return writeSpecs(ctx, app, client, format, []sideko.APISpec{*spec}, "New API Version")
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "api name or id, e.g. my-api")
	cmd.Flags().StringVar(&flags.version, "version", "", "semantic version (e.g. `2.1.5`) or version bump (`patch`, `minor`, `major`, `rc`)")
	cmd.Flags().StringVar(&flags.spec, "spec", "", "path to the OpenAPI document (YAML or JSON)")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "release notes of the version")
	cmd.Flags().BoolVar(&flags.disableMock, "disable-mock", false, "disable the mock server for the new version")
	cmd.Flags().BoolVar(&flags.allowLintErrors, "allow-lint-errors", false, "create the version even if the OpenAPI document has lint errors")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("version")
	_ = cmd.MarkFlagRequired("spec")
	globals.AddDisplayFlags(cmd)
	return cmd
}

type versionUpdateFlags struct {
	name       string
	version    string
	newVersion string
	spec       string
	notes      string
	mock       bool
}

func newVersionUpdateCommand(app appcontext.Interface) *cobra.Command {
	flags := &versionUpdateFlags{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an existing version of an API",
		Example: `  sideko api version update --name my-api --version latest --spec ./openapi.yaml
  sideko api version update --name my-api --version 1.3.0 --new-version 1.3.1 --mock=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := globals.ParseDisplay(cmd).Format()
			if err != nil {
				return err
			}
			if flags.spec != "" {
				if err := validation.OpenAPIFile(flags.spec); err != nil {
					return err
				}
			}
			req := sideko.UpdateSpecRequest{
				APIName:     flags.name,
				APIVersion:  flags.version,
				Version:     flags.newVersion,
				OpenAPIPath: flags.spec,
				Notes:       flags.notes,

				MockServerEnabled: ptr.If(cmd.Flags().Changed("mock"), flags.mock),
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			spec, err := client.UpdateSpec(ctx, req)
			if err != nil {
				return err
			}
			return writeSpecs(ctx, app, client, format, []sideko.APISpec{*spec}, "Updated API Version")
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "api name or id, e.g. my-api")
	cmd.Flags().StringVar(&flags.version, "version", "", "version to update (e.g. `2.1.5` or `latest`)")
	cmd.Flags().StringVar(&flags.newVersion, "new-version", "", "version to update with (e.g. `2.1.6`)")
	cmd.Flags().StringVar(&flags.spec, "spec", "", "path to the OpenAPI document (YAML or JSON) to update with")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "release notes of the version")
	cmd.Flags().BoolVar(&flags.mock, "mock", false, "enable or disable the mock server")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("version")
	globals.AddDisplayFlags(cmd)
	return cmd
}

func newVersionDownloadCommand(app appcontext.Interface) *cobra.Command {
	var name, version, out string
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the OpenAPI document of an API version",
		Long: `Download writes the OpenAPI document of an API version to disk. The
extension of --output is adjusted to match the format of the document.`,
		Example: `  sideko api version download --name my-api
  sideko api version download --name my-api --version 1.2.0 --output ./openapi.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out != "" {
				if err := validation.FileWithExtension(out, true, validation.OpenAPIExtensions...); err != nil {
					return err
				}
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			doc, err := client.GetOpenAPI(ctx, name, version)
			if err != nil {
				return err
			}
			// the default file name carries the concrete version, not "latest"
			if out == "" && version == "latest" {
				spec, err := client.GetSpec(ctx, name, version)
				if err != nil {
					return err
				}
				version = spec.Version
			}
			dest := downloadPath(out, name+"-"+version, doc.Extension)
			if err := os.WriteFile(dest, []byte(doc.OpenAPI), constants.FilePermissions); err != nil {
				return errors.WrapIO("write", dest, err)
			}
			app.Logger().Info().Msg(styles.Success("OpenAPI saved to " + dest))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "api name or id, e.g. my-api")
	cmd.Flags().StringVar(&version, "version", "latest", "version to download (e.g. `2.1.5` or `latest`)")
	cmd.Flags().StringVar(&out, "output", "", "output path of the OpenAPI document (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// downloadPath keeps output when its extension matches the document format
// and otherwise swaps in the right extension.
func downloadPath(output, defaultStem, extension string) string {
	extension = strings.ToLower(extension)
	if output == "" {
		return "./" + defaultStem + "." + extension
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	stem := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	if stem == "" {
		stem = defaultStem
	}
	switch {
	case extension == "json" && ext != "json":
		return filepath.Join(filepath.Dir(output), stem+".json")
	case extension == "yaml" && ext != "yaml" && ext != "yml":
		return filepath.Join(filepath.Dir(output), stem+".yaml")
	default:
		return output
	}
}

func writeSpecs(ctx context.Context, app appcontext.Interface, client *sideko.Client, format output.Format, specs []sideko.APISpec, title string) error {
	var raw any = specs
	if title != "" && len(specs) == 1 {
		raw = specs[0]
	}
	if format == output.FormatRaw {
		return output.Write(app.Stdout(), format, raw, nil)
	}
	subdomain, err := orgSubdomain(ctx, client)
	if err != nil {
		return err
	}
	return output.Write(app.Stdout(), format, raw, func() any {
		data := table.Specs(specs, subdomain)
		if title != "" {
			data.Title = title
		}
		return data
	})
}
