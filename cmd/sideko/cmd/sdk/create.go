package sdk

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/archive"
	"github.com/sideko-inc/sideko/internal/cmd/emoji"
	"github.com/sideko-inc/sideko/internal/cmd/spinner"
	"github.com/sideko-inc/sideko/internal/validation"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

const defaultSDKVersion = "0.1.0"

var titleCase = cases.Title(language.English)

// createOptions describes one SDK generation.
type createOptions struct {
	ConfigPath      string
	Language        sideko.Language
	SDKVersion      string
	APIVersion      string
	GithubActions   bool
	AllowLintErrors bool
	Output          string
}

func newCreateCommand(app appcontext.Interface) *cobra.Command {
	opts := &createOptions{}
	var lang string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an SDK using an SDK config",
		Long: `Create generates an SDK in one language and unpacks it into a new
directory under --output.`,
		Example: `  sideko sdk create --config ./sdk-config.yaml --lang typescript
  sideko sdk create --config ./sdk-config.yaml --lang go --version 1.0.0 --api-version 2.1.5 --output ./sdks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, ok := sideko.ParseLanguage(lang)
			if !ok {
				return errors.NewValidationError("lang", lang, "unsupported language, expected one of: "+languageList())
			}
			opts.Language = parsed
			if err := validation.SDKConfig(opts.ConfigPath); err != nil {
				return err
			}
			if err := validation.Semver(opts.SDKVersion); err != nil {
				return err
			}
			if err := validation.Dir(opts.Output, true); err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			_, err = createSDK(cmd.Context(), app, client, *opts)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to the sdk config")
	cmd.Flags().StringVar(&lang, "lang", "", "programming language to generate ("+languageList()+")")
	cmd.Flags().StringVar(&opts.SDKVersion, "version", defaultSDKVersion, "semantic version of the generated sdk")
	cmd.Flags().StringVar(&opts.APIVersion, "api-version", "latest", "generate the sdk for a specific version of the api (e.g. `2.1.5`)")
	cmd.Flags().BoolVar(&opts.GithubActions, "gh-actions", false, "include github actions for testing and publishing the sdk")
	cmd.Flags().BoolVar(&opts.AllowLintErrors, "allow-lint-errors", false, "generate the sdk even if the api version has lint errors")
	cmd.Flags().StringVar(&opts.Output, "output", "./", "directory to save the sdk in")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

// createSDK generates an SDK and unpacks it, returning the directory it was
// saved to.
func createSDK(ctx context.Context, app appcontext.Interface, client *sideko.Client, opts createOptions) (string, error) {
	logger := app.Logger()
	start := time.Now()

	sp := spinner.Start(emoji.Prefix(emoji.Wand, fmt.Sprintf("Generating %s SDK", opts.Language)), logger)
	resp, err := client.GenerateSDK(ctx, sideko.GenerateSDKRequest{
		ConfigPath:      opts.ConfigPath,
		Language:        opts.Language,
		SDKVersion:      opts.SDKVersion,
		APIVersion:      opts.APIVersion,
		GithubActions:   opts.GithubActions,
		AllowLintErrors: opts.AllowLintErrors,
	})
	if err != nil {
		sp.StopError("Failed generating SDK")
		return "", err
	}
	sp.StopSuccess(fmt.Sprintf("%s %s SDK generated!", opts.Language.Emoji(), titleCase.String(string(opts.Language))))
	logger.Debug().Dur("took", time.Since(start)).Msg("sdk generated")

	logger.Debug().Int("bytes", len(resp.Content)).Str("dest", opts.Output).Msg("unpacking sdk")
	if err := archive.ExtractTarGz(bytes.NewReader(resp.Content), opts.Output); err != nil {
		return "", &errors.GeneralError{Message: "failed unpacking sdk archive into output", Debug: errors.DebugInfo(err), Err: err}
	}

	dest := opts.Output
	if name, ok := sideko.ExtractFilename(resp); ok {
		dest = filepath.Join(dest, strings.TrimSuffix(name, ".tar.gz"))
	}
	logger.Info().Msgf("Saved to %s", dest)
	return dest, nil
}

func languageList() string {
	names := make([]string, 0, len(sideko.Languages()))
	for _, l := range sideko.Languages() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}
