package sdk

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideko-inc/sideko/pkg/errors"
)

const starterConfig = "api_name: petstore\nmodules:\n  pets: {}\n"

func TestConfigInit(t *testing.T) {
	out := filepath.Join(t.TempDir(), "config.yml")
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sdk/config/init", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "petstore", body["api_name"])
		assert.Equal(t, "latest", body["api_version"])
		assert.Equal(t, "tag", body["default_module_structure"])
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = io.WriteString(w, starterConfig)
	})
	app, logger := newApp(t, mux)

	require.NoError(t, run(app, "config", "init", "--api-name", "petstore", "--module-structure", "tag", "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, starterConfig, string(data))
	logger.AssertContains(t, "config written to "+out)
	assert.Contains(t, app.Out.String(), "sdk configuration Preview")
	assert.Contains(t, app.Out.String(), "api_name: petstore")
}

func TestConfigInitRejectsBadInput(t *testing.T) {
	app, _ := newApp(t, http.NewServeMux())

	err := run(app, "config", "init", "--api-name", "petstore", "--module-structure", "nested")
	assert.True(t, errors.IsValidationError(err))

	err = run(app, "config", "init", "--api-name", "petstore", "--output", "config.json")
	assert.True(t, errors.IsValidationError(err))
}

func TestConfigSyncInPlace(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sdk-config.yaml", "api_name: petstore\n")
	spec := writeFile(t, dir, "openapi.json", `{"openapi":"3.0.0"}`)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sdk/config/sync", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "x-field", r.FormValue("customizations"))
		assert.Empty(t, r.FormValue("api_version"))
		_, _, err := r.FormFile("openapi")
		require.NoError(t, err)
		_, _ = io.WriteString(w, starterConfig)
	})
	app, logger := newApp(t, mux)

	require.NoError(t, run(app, "config", "sync", "--name", "petstore", "--config", config, "--spec", spec, "--x-mods"))

	data, err := os.ReadFile(config)
	require.NoError(t, err)
	assert.Equal(t, starterConfig, string(data))
	logger.AssertContains(t, "Synced config written to "+config)
	assert.Contains(t, app.Out.String(), "SDK Configuration Preview")
}

func TestConfigSyncToOutput(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sdk-config.yaml", "api_name: petstore\n")
	out := filepath.Join(dir, "synced.yaml")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sdk/config/sync", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "config", r.FormValue("customizations"))
		assert.Equal(t, "2.0.0", r.FormValue("api_version"))
		_, _ = io.WriteString(w, starterConfig)
	})
	app, _ := newApp(t, mux)

	require.NoError(t, run(app, "config", "sync", "--name", "petstore", "--version", "2.0.0", "--config", config, "--output", out))

	original, err := os.ReadFile(config)
	require.NoError(t, err)
	assert.Equal(t, "api_name: petstore\n", string(original))
	synced, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, starterConfig, string(synced))
}
