package sdk

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideko-inc/sideko/internal/cmd/prompt"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

func TestInitCreatesEverything(t *testing.T) {
	spec := writeFile(t, t.TempDir(), "openapi.yaml", "openapi: 3.0.0\n")
	t.Chdir(t.TempDir())

	var specAttempts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/api", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []sideko.API{})
	})
	mux.HandleFunc("POST /v1/api", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, sideko.API{ID: "api_1", Name: "petstore"})
	})
	mux.HandleFunc("GET /v1/api/petstore/spec", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []sideko.APISpec{})
	})
	mux.HandleFunc("POST /v1/api/petstore/spec", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "0.1.0", r.FormValue("version"))
		if specAttempts.Add(1) == 1 {
			assert.Equal(t, "false", r.FormValue("allow_lint_errors"))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"description":"openapi has 3 linting errors"}`)
			return
		}
		assert.Equal(t, "true", r.FormValue("allow_lint_errors"))
		writeJSON(t, w, sideko.APISpec{ID: "spec_1", Version: "0.1.0", API: sideko.API{Name: "petstore"}})
	})
	mux.HandleFunc("GET /v1/org", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, sideko.Organization{Subdomain: "acme", Features: sideko.OrgFeatures{MaxSDKAPIMethods: 10, AllowSDKPython: true}})
	})
	mux.HandleFunc("GET /v1/api/petstore/spec/0.1.0/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, sideko.Stats{Methods: 25})
	})
	mux.HandleFunc("POST /v1/sdk/config/init", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, starterConfig)
	})
	mux.HandleFunc("POST /v1/sdk", sdkHandler(t, func(r *http.Request) {
		assert.Equal(t, "0.1.0", r.FormValue("api_version"))
		assert.Equal(t, "0.1.0", r.FormValue("sdk_version"))
		assert.Equal(t, "true", r.FormValue("allow_lint_errors"))
		assert.Equal(t, "true", r.FormValue("github_actions"))
	}))

	app, logger := newApp(t, mux)
	prompter := prompt.NewScripted(
		prompt.Answer{Text: "petstore"},
		prompt.Answer{Text: spec},
		prompt.Answer{},
		prompt.Answer{Yes: true},
		prompt.Answer{Yes: true},
		prompt.Answer{Choice: "tag"},
		prompt.Answer{Yes: true},
		prompt.Answer{Choices: []string{"python"}},
	)
	app.PrompterValue = prompter
	var edited []string
	app.Editor = func(_ context.Context, _, path string) error {
		edited = append(edited, path)
		return nil
	}

	require.NoError(t, run(app, "init"))

	assert.Equal(t, int32(2), specAttempts.Load())
	assert.Equal(t, []string{"./sdk-config.yml"}, edited)
	_, err := os.Stat(filepath.Join("petstore-python", "README.md"))
	require.NoError(t, err)

	options := prompter.Offered["select languages:"]
	require.Len(t, options, len(sideko.Languages()))
	assert.Equal(t, "python", options[0].Label)
	assert.Equal(t, "typescript (requires upgrade)", options[1].Label)

	logger.AssertContains(t, "api has 25 operations, which exceeds your current limit of 10.")
	logger.AssertContains(t, "please fix the linting errors later")
	logger.AssertContains(t, "sdks generated successfully.")
}

func TestInitExistingAPIAndConfig(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sdk-config.yml", starterConfig)
	t.Chdir(dir)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/api", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []sideko.API{{Name: "petstore"}, {Name: "billing"}})
	})
	mux.HandleFunc("GET /v1/api/billing/spec", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []sideko.APISpec{{Version: "2.0.0"}, {Version: "1.0.0"}})
	})
	mux.HandleFunc("GET /v1/org", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, sideko.Organization{Features: sideko.OrgFeatures{MaxSDKAPIMethods: -1, AllowSDKGo: true, AllowSDKRust: true}})
	})
	var generated []string
	mux.HandleFunc("POST /v1/sdk", sdkHandler(t, func(r *http.Request) {
		assert.Equal(t, "1.0.0", r.FormValue("api_version"))
		assert.Equal(t, "false", r.FormValue("allow_lint_errors"))
		generated = append(generated, r.FormValue("language"))
	}))

	app, _ := newApp(t, mux)
	prompter := prompt.NewScripted(
		prompt.Answer{Choice: "billing"},
		prompt.Answer{Choice: "1.0.0"},
		prompt.Answer{Yes: false},
		prompt.Answer{Text: config},
		prompt.Answer{Choices: []string{"go", "rust"}},
	)
	app.PrompterValue = prompter

	require.NoError(t, run(app, "init"))
	assert.Equal(t, []string{"go", "rust"}, generated)
	assert.Equal(t, createAPIOption, prompter.Offered["select api:"][0].Value)
	assert.Equal(t, createVersionOption, prompter.Offered["select version:"][0].Value)
}

func TestInitDeclinesLintErrors(t *testing.T) {
	spec := writeFile(t, t.TempDir(), "openapi.yaml", "openapi: 3.0.0\n")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/api", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []sideko.API{{Name: "petstore"}})
	})
	mux.HandleFunc("GET /v1/api/petstore/spec", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []sideko.APISpec{})
	})
	mux.HandleFunc("POST /v1/api/petstore/spec", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"description":"openapi has linting errors"}`)
	})
	app, _ := newApp(t, mux)
	app.PrompterValue = prompt.NewScripted(
		prompt.Answer{Choice: "petstore"},
		prompt.Answer{Text: spec},
		prompt.Answer{Text: "1.0.0"},
		prompt.Answer{Yes: false},
	)

	err := run(app, "init")
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestValidateLanguages(t *testing.T) {
	features := sideko.OrgFeatures{AllowSDKPython: true}
	assert.NoError(t, validateLanguages(features, []string{"python"}))
	assert.ErrorContains(t, validateLanguages(features, nil), "select at least one language")
	assert.ErrorContains(t, validateLanguages(features, []string{"python", "java"}), "not available in your plan: java")
	assert.ErrorContains(t, validateLanguages(features, []string{"cobol"}), "invalid language selected")
}

func TestFreeConfigPath(t *testing.T) {
	t.Chdir(t.TempDir())
	app, _ := newApp(t, http.NewServeMux())
	logger := app.Logger()

	assert.Equal(t, "./sdk-config.yml", freeConfigPath(logger))
	writeFile(t, ".", "sdk-config.yml", "")
	writeFile(t, ".", "sdk-config-1.yml", "")
	assert.Equal(t, "./sdk-config-2.yml", freeConfigPath(logger))
}
