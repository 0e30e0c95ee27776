package sdk

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

func init() {
	styles.Disable()
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newApp(t *testing.T, mux *http.ServeMux) (*appcontext.Mock, *logging.TestLogger) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := logging.NewTestLogger(t)
	return &appcontext.Mock{
		LoggerValue: logger.Logger,
		ClientFunc: func() (*sideko.Client, error) {
			return sideko.NewClient(srv.URL+"/v1", "sk_test"), nil
		},
	}, logger
}

func run(app *appcontext.Mock, args ...string) error {
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// sdkTarball builds a gzipped tarball holding files under root/.
func sdkTarball(t *testing.T, root string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: root + "/", Typeflag: tar.TypeDir, Mode: 0o755}))
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     root + "/" + name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func sdkHandler(t *testing.T, onRequest func(r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		if onRequest != nil {
			onRequest(r)
		}
		lang := r.FormValue("language")
		w.Header().Set("Content-Type", "application/gzip")
		w.Header().Set("Content-Disposition", `attachment; filename="petstore-`+lang+`.tar.gz"`)
		_, _ = w.Write(sdkTarball(t, "petstore-"+lang, map[string]string{"README.md": "# petstore " + lang}))
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sdk-config.yaml", "language: {}\n")
	out := filepath.Join(dir, "sdks")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sdk", sdkHandler(t, func(r *http.Request) {
		assert.Equal(t, "python", r.FormValue("language"))
		assert.Equal(t, "1.2.0", r.FormValue("sdk_version"))
		assert.Equal(t, "latest", r.FormValue("api_version"))
		assert.Equal(t, "true", r.FormValue("github_actions"))
	}))
	app, logger := newApp(t, mux)

	require.NoError(t, run(app, "create", "--config", config, "--lang", "python", "--version", "1.2.0", "--gh-actions", "--output", out))

	readme, err := os.ReadFile(filepath.Join(out, "petstore-python", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# petstore python", string(readme))
	logger.AssertContains(t, "Saved to "+filepath.Join(out, "petstore-python"))
}

func TestCreateValidation(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sdk-config.yaml", "language: {}\n")
	app, _ := newApp(t, http.NewServeMux())

	err := run(app, "create", "--config", config, "--lang", "cobol")
	assert.True(t, errors.IsValidationError(err))

	err = run(app, "create", "--config", config, "--lang", "go", "--version", "one")
	assert.True(t, errors.IsValidationError(err))

	err = run(app, "create", "--config", writeFile(t, dir, "config.json", "{}"), "--lang", "go")
	assert.True(t, errors.IsValidationError(err))
}

func TestReleasedReadsIDFromRepo(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, ".sdk.json", `{"id":"6f1c2d3e-1111-4222-8333-444455556666"}`)

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/sdk/6f1c2d3e-1111-4222-8333-444455556666", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["released"])
		writeJSON(t, w, sideko.SDK{Name: "petstore-python", Version: "0.2.0", Language: sideko.LanguagePython, Released: true})
	})
	app, logger := newApp(t, mux)

	require.NoError(t, run(app, "released", "--repo", repo))
	logger.AssertContains(t, "✔ petstore-python v0.2.0 (python) marked as released")
}

func TestReleasedWithID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/sdk/sdk_1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, sideko.SDK{Name: "petstore-go", Version: "1.0.0", Language: sideko.LanguageGo})
	})
	app, logger := newApp(t, mux)

	require.NoError(t, run(app, "released", "--id", "sdk_1", "--repo", "/does/not/exist"))
	logger.AssertContains(t, "marked as released")
}

func TestReleasedNotAnSDK(t *testing.T) {
	app, _ := newApp(t, http.NewServeMux())
	err := run(app, "released", "--repo", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotAnSDK)
}

func TestUpdateValidatesConfig(t *testing.T) {
	app, _ := newApp(t, http.NewServeMux())
	err := run(app, "update", "--config", "missing.yaml", "--repo", t.TempDir(), "--version", "patch")
	assert.True(t, errors.IsValidationError(err))
}
