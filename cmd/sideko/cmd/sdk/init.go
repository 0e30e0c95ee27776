package sdk

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/prompt"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/internal/editor"
	"github.com/sideko-inc/sideko/internal/validation"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

const (
	createAPIOption     = "<create new api>"
	createVersionOption = "<create new version>"
	requiresUpgrade     = " (requires upgrade)"

	customizeDocsURL = "https://docs.sideko.dev/sdk-generation/customizing-sdks"
	managedSDKsURL   = "https://docs.sideko.dev/sdk-generation/managed-sdks"
)

func newInitCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactively configure and create a suite of SDKs",
		Long: `Init walks through everything needed to generate SDKs: picking or
creating an API and version, creating an SDK config and choosing languages.
This is the recommended way to get started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			w := &initWizard{
				app:      app,
				client:   client,
				prompter: app.Prompter(),
				logger:   app.Logger(),
			}
			return w.run(cmd.Context())
		},
	}
}

// initWizard holds the state shared by the steps of sdk init.
type initWizard struct {
	app      appcontext.Interface
	client   *sideko.Client
	prompter prompt.Prompter
	logger   *zerolog.Logger
}

// selectedVersion is the API version SDKs are generated from. AllowLintErrors
// is set when the user accepted lint errors while creating it.
type selectedVersion struct {
	Spec            sideko.APISpec
	AllowLintErrors bool
}

func (w *initWizard) run(ctx context.Context) error {
	apis, err := w.client.ListAPIs(ctx)
	if err != nil {
		return err
	}
	w.logger.Debug().Msgf("found %d apis to choose from", len(apis))
	api, err := w.selectAPI(ctx, apis)
	if err != nil {
		return err
	}

	specs, err := w.client.ListSpecs(ctx, api.Name)
	if err != nil {
		return err
	}
	w.logger.Debug().Msgf("found %d versions to choose from", len(specs))
	version, err := w.selectVersion(ctx, api, specs)
	if err != nil {
		return err
	}

	org, err := w.client.GetOrganization(ctx)
	if err != nil {
		return err
	}
	if err := w.checkMethodLimit(ctx, api, version.Spec, org.Features.MaxSDKAPIMethods); err != nil {
		return err
	}

	configPath, err := w.selectConfig(ctx, api, version.Spec)
	if err != nil {
		return err
	}
	langs, err := w.selectLanguages(org.Features)
	if err != nil {
		return err
	}

	for _, lang := range langs {
		w.logger.Debug().Msgf("running `sideko sdk create --lang %s ...` with prompted input", lang)
		_, err := createSDK(ctx, w.app, w.client, createOptions{
			ConfigPath:      configPath,
			Language:        lang,
			SDKVersion:      defaultSDKVersion,
			APIVersion:      version.Spec.Version,
			GithubActions:   true,
			AllowLintErrors: version.AllowLintErrors,
			Output:          ".",
		})
		if err != nil {
			return err
		}
	}

	w.logger.Info().Msg(styles.Success("sdks generated successfully."))
	w.logger.Info().Msgf("learn about setting up automatic updates here: %s", managedSDKsURL)
	return nil
}

func (w *initWizard) selectAPI(ctx context.Context, apis []sideko.API) (sideko.API, error) {
	if len(apis) == 0 {
		return w.createAPI(ctx)
	}
	options := []prompt.Option{{Label: createAPIOption, Value: createAPIOption}}
	for _, a := range apis {
		options = append(options, prompt.Option{Label: a.Name, Value: a.Name})
	}
	choice, err := w.prompter.Select("select api:", options)
	if err != nil {
		return sideko.API{}, err
	}
	if choice == createAPIOption {
		return w.createAPI(ctx)
	}
	for _, a := range apis {
		if a.Name == choice {
			return a, nil
		}
	}
	return sideko.API{}, errors.Generalf("invalid api chosen: %s", choice)
}

func (w *initWizard) createAPI(ctx context.Context) (sideko.API, error) {
	name, err := w.prompter.Input("api name:", "my-api", "", validation.NewAPIName)
	if err != nil {
		return sideko.API{}, err
	}
	api, err := w.client.CreateAPI(ctx, name)
	if err != nil {
		return sideko.API{}, err
	}
	w.logger.Info().Msg(styles.Success("api created"))
	w.logger.Debug().Msgf("api with id: %s", api.ID)
	return *api, nil
}

func (w *initWizard) selectVersion(ctx context.Context, api sideko.API, specs []sideko.APISpec) (selectedVersion, error) {
	if len(specs) == 0 {
		return w.createVersion(ctx, api)
	}
	options := []prompt.Option{{Label: createVersionOption, Value: createVersionOption}}
	for _, s := range specs {
		options = append(options, prompt.Option{Label: s.Version, Value: s.Version})
	}
	choice, err := w.prompter.Select("select version:", options)
	if err != nil {
		return selectedVersion{}, err
	}
	if choice == createVersionOption {
		return w.createVersion(ctx, api)
	}
	for _, s := range specs {
		if s.Version == choice {
			return selectedVersion{Spec: s}, nil
		}
	}
	return selectedVersion{}, errors.Generalf("invalid version chosen: %s", choice)
}

// createVersion uploads a new version with strict linting, and retries with
// lint errors allowed if the user agrees.
func (w *initWizard) createVersion(ctx context.Context, api sideko.API) (selectedVersion, error) {
	oasPath, err := w.prompter.Input("openapi:", "path/to/spec.yml", "", validation.OpenAPIFile)
	if err != nil {
		return selectedVersion{}, err
	}
	version, err := w.prompter.Input("version:", "", "0.1.0", validation.Semver)
	if err != nil {
		return selectedVersion{}, err
	}

	req := sideko.CreateSpecRequest{
		APIName:           api.Name,
		Version:           version,
		OpenAPIPath:       oasPath,
		MockServerEnabled: true,
	}
	spec, err := w.client.CreateSpec(ctx, req)
	if err == nil {
		w.logger.Info().Msg(styles.Success("version created"))
		w.logger.Debug().Msgf("new api version in `%s` with id: %s", api.Name, spec.ID)
		return selectedVersion{Spec: *spec}, nil
	}

	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) || !strings.Contains(apiErr.Description(), "linting errors") {
		return selectedVersion{}, err
	}
	proceed, promptErr := w.prompter.Confirm(
		"OpenAPI spec has linting errors. Continue anyway?",
		"Continuing will allow the spec to be uploaded despite linting errors. This may result in poor SDK quality!",
		false,
	)
	if promptErr != nil {
		return selectedVersion{}, promptErr
	}
	if !proceed {
		return selectedVersion{}, err
	}

	req.AllowLintErrors = true
	spec, err = w.client.CreateSpec(ctx, req)
	if err != nil {
		return selectedVersion{}, err
	}
	w.logger.Info().Msg(styles.Success("version created (please fix the linting errors later by running: sideko api lint)"))
	return selectedVersion{Spec: *spec, AllowLintErrors: true}, nil
}

// checkMethodLimit warns when the version has more operations than the
// organization's plan generates. A limit of -1 means unlimited.
func (w *initWizard) checkMethodLimit(ctx context.Context, api sideko.API, spec sideko.APISpec, limit int64) error {
	if limit < 0 {
		return nil
	}
	stats, err := w.client.GetStats(ctx, api.Name, spec.Version)
	if err != nil {
		return err
	}
	if stats.Methods > limit {
		w.logger.Warn().Msgf("api has %d operations, which exceeds your current limit of %d.", stats.Methods, limit)
		w.logger.Warn().Msgf("consider using the SDK config to hide unused operations: %s", customizeDocsURL)
	}
	return nil
}

func (w *initWizard) selectConfig(ctx context.Context, api sideko.API, spec sideko.APISpec) (string, error) {
	create, err := w.prompter.Confirm("create new sdk config? (need one to generate)", "", true)
	if err != nil {
		return "", err
	}
	if !create {
		return w.prompter.Input("config:", "./sdk-config.yml", "", validation.SDKConfig)
	}

	choice, err := w.prompter.Select("generate SDK modules from:", []prompt.Option{
		{Label: "path (recommended) " + styles.Grey("-- e.g. /store/order -> store.order.list()"), Value: string(sideko.ModulePath)},
		{Label: "tag " + styles.Grey("-- uses OpenAPI tag to generate modules"), Value: string(sideko.ModuleTag)},
		{Label: "flat " + styles.Grey("-- all SDK functions available at the root"), Value: string(sideko.ModuleFlat)},
	})
	if err != nil {
		return "", err
	}
	structure, ok := sideko.ParseModuleStructure(choice)
	if !ok {
		structure = sideko.ModulePath
	}

	out := freeConfigPath(w.logger)
	w.logger.Debug().Msg("running `sideko sdk config init` with prompted input...")
	err = initConfig(ctx, w.app, w.client, sideko.InitSDKConfigRequest{
		APIName:         api.Name,
		APIVersion:      spec.Version,
		ModuleStructure: structure,
	}, out)
	if err != nil {
		return "", err
	}
	w.logger.Info().Msg(styles.Success("sdk config generated"))

	if err := editor.NewReviewer(w.prompter, w.logger, w.app.EditorRunner()).Review(ctx, out); err != nil {
		return "", err
	}
	return out, nil
}

// freeConfigPath picks ./sdk-config.yml, or the first ./sdk-config-N.yml
// that does not exist yet.
func freeConfigPath(logger *zerolog.Logger) string {
	out := "./sdk-config.yml"
	for n := 1; exists(out); n++ {
		out = fmt.Sprintf("./sdk-config-%d.yml", n)
		logger.Debug().Msgf("default config output exists, trying %s...", out)
	}
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (w *initWizard) selectLanguages(features sideko.OrgFeatures) ([]sideko.Language, error) {
	options := make([]prompt.Option, 0, len(sideko.Languages()))
	for _, lang := range sideko.Languages() {
		label := string(lang)
		if !features.Allows(lang) {
			label += requiresUpgrade
		}
		options = append(options, prompt.Option{Label: label, Value: string(lang)})
	}

	choices, err := w.prompter.MultiSelect("select languages:", options, func(selected []string) error {
		return validateLanguages(features, selected)
	})
	if err != nil {
		return nil, err
	}
	langs := make([]sideko.Language, 0, len(choices))
	for _, c := range choices {
		lang, _ := sideko.ParseLanguage(c)
		langs = append(langs, lang)
	}
	return langs, nil
}

func validateLanguages(features sideko.OrgFeatures, selected []string) error {
	if len(selected) == 0 {
		return errors.NewValidationError("languages", selected, "select at least one language")
	}
	var disallowed []string
	for _, s := range selected {
		lang, ok := sideko.ParseLanguage(s)
		if !ok {
			return errors.NewValidationError("languages", s, "invalid language selected")
		}
		if !features.Allows(lang) {
			disallowed = append(disallowed, string(lang))
		}
	}
	if len(disallowed) > 0 {
		return errors.NewValidationError("languages", disallowed,
			fmt.Sprintf("the selected language(s) is not available in your plan: %s", strings.Join(disallowed, ", ")))
	}
	return nil
}
