package sdk

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/output"
	"github.com/sideko-inc/sideko/internal/cmd/table"
	"github.com/sideko-inc/sideko/internal/validation"
	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

const defaultConfigOutput = "./sdk-config.yaml"

func newConfigCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage SDK configs",
	}
	cmd.AddCommand(newConfigInitCommand(app), newConfigSyncCommand(app))
	return cmd
}

func newConfigInitCommand(app appcontext.Interface) *cobra.Command {
	var req sideko.InitSDKConfigRequest
	var moduleStructure, out string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate the default SDK config for an API",
		Example: `  sideko sdk config init --api-name my-api
  sideko sdk config init --api-name my-api --api-version 2.1.5 --module-structure tag --output ./config.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if moduleStructure != "" {
				ms, ok := sideko.ParseModuleStructure(moduleStructure)
				if !ok {
					return errors.NewValidationError("module-structure", moduleStructure, "expected one of: path, tag, flat")
				}
				req.ModuleStructure = ms
			}
			if err := validation.YAMLOutput(out); err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			return initConfig(cmd.Context(), app, client, req, out)
		},
	}
	cmd.Flags().StringVar(&req.APIName, "api-name", "", "api name or id, e.g. my-api")
	cmd.Flags().StringVar(&req.APIVersion, "api-version", "latest", "generate the config for a specific version (e.g. `2.1.5`)")
	cmd.Flags().StringVar(&moduleStructure, "module-structure", "", "default module structure of the sdk (path, tag or flat)")
	cmd.Flags().StringVar(&out, "output", defaultConfigOutput, "output path of the sdk config (.yaml or .yml)")
	_ = cmd.MarkFlagRequired("api-name")
	return cmd
}

// initConfig writes the server's starter config to out and previews it.
func initConfig(ctx context.Context, app appcontext.Interface, client *sideko.Client, req sideko.InitSDKConfigRequest, out string) error {
	resp, err := client.InitSDKConfig(ctx, req)
	if err != nil {
		return err
	}
	config, err := writeConfig(out, resp.Content)
	if err != nil {
		return err
	}
	app.Logger().Info().Msgf("config written to %s", out)
	return output.Write(app.Stdout(), output.FormatPretty, nil, func() any {
		return table.Preview("sdk configuration Preview", config, 15)
	})
}

type syncFlags struct {
	name       string
	version    string
	spec       string
	configPath string
	out        string
	xMods      bool
}

func newConfigSyncCommand(app appcontext.Interface) *cobra.Command {
	flags := &syncFlags{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync an SDK config with the latest state of an API",
		Long: `Sync updates an SDK config so it covers every operation of an API
version, or of a local OpenAPI document when --spec is given. The synced
config replaces --config unless --output is set.`,
		Example: `  sideko sdk config sync --name my-api --config ./sdk-config.yaml
  sideko sdk config sync --name my-api --spec ./openapi.yaml --config ./sdk-config.yaml --output ./synced.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, app, flags)
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "api name or id, e.g. my-api")
	cmd.Flags().StringVar(&flags.version, "version", "latest", "sync the config with a specific version (e.g. `2.1.5`)")
	cmd.Flags().StringVar(&flags.spec, "spec", "", "sync the config with a local OpenAPI document")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "config to sync")
	cmd.Flags().StringVar(&flags.out, "output", "", "output path of the synced config (.yaml or .yml), defaults to --config")
	cmd.Flags().BoolVar(&flags.xMods, "x-mods", false,
		"use the x-sideko-* fields of the OpenAPI document to define modules and function names; the module config is omitted from the synced file")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runSync(cmd *cobra.Command, app appcontext.Interface, flags *syncFlags) error {
	if err := validation.SDKConfig(flags.configPath); err != nil {
		return err
	}
	req := sideko.SyncSDKConfigRequest{
		ConfigPath:     flags.configPath,
		Customizations: sideko.CustomizeConfig,
	}
	if flags.xMods {
		req.Customizations = sideko.CustomizeXField
	}
	if flags.spec != "" {
		if err := validation.OpenAPIFile(flags.spec); err != nil {
			return err
		}
		req.OpenAPIPath = flags.spec
	} else {
		req.APIVersion = flags.version
	}
	out := flags.out
	if out == "" {
		out = flags.configPath
	} else if err := validation.YAMLOutput(out); err != nil {
		return err
	}

	client, err := app.Client()
	if err != nil {
		return err
	}
	logger := app.Logger()
	logger.Debug().Str("api", flags.name).Str("customizations", string(req.Customizations)).Msg("syncing sdk config")

	resp, err := client.SyncSDKConfig(cmd.Context(), req)
	if err != nil {
		return err
	}
	config, err := writeConfig(out, resp.Content)
	if err != nil {
		return err
	}
	if err := output.Write(app.Stdout(), output.FormatPretty, nil, func() any {
		return table.Preview("SDK Configuration Preview", config, 25)
	}); err != nil {
		return err
	}
	logger.Info().Msgf("Synced config written to %s", out)
	return nil
}

func writeConfig(path string, content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", errors.WithDebug("failed to parse config yaml as UTF-8 string", "response is not valid utf-8")
	}
	if err := os.WriteFile(path, content, constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return string(content), nil
}
