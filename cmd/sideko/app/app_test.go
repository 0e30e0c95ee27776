package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/sideko-inc/sideko/internal/config"
	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// testApp builds an App whose store points at srv and a temp dotfile.
func testApp(t *testing.T, srv *httptest.Server) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	keyring.MockInit()
	for _, k := range config.Keys() {
		t.Setenv(k.String(), "")
		require.NoError(t, os.Unsetenv(k.String()))
	}
	t.Setenv("SIDKEO_BASE_URL", "")
	require.NoError(t, os.Unsetenv("SIDKEO_BASE_URL"))

	t.Setenv(config.ConfigPath.String(), filepath.Join(t.TempDir(), ".sideko"))
	t.Setenv(config.APIKey.String(), "sk_test")
	if srv != nil {
		t.Setenv(config.BaseURL.String(), srv.URL+"/v1")
	}

	var stdout, logs bytes.Buffer
	app, err := New("v1.2.3", "abc123", "2026-01-01", "test",
		WithConfig(&Config{LogFormat: "json", NoColor: true}),
		WithStdout(&stdout),
		WithLogOutput(&logs),
		WithKeychain(config.OSKeychain{}),
	)
	require.NoError(t, err)
	return app, &stdout, &logs
}

func updatesServer(t *testing.T, updates []sideko.CLIUpdate, calls *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/cli/updates", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "1.2.3", r.URL.Query().Get("cli_version"))
		assert.Empty(t, r.Header.Get(constants.AuthHeader))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(updates)
	})
	mux.HandleFunc("GET /v1/api", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a1","name":"petstore","created_at":"2026-01-01T00:00:00Z","version_count":1}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestApp_New(t *testing.T) {
	app, _, _ := testApp(t, nil)

	if app.Version() != "v1.2.3" {
		t.Errorf("Version() = %q", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %q", app.Commit())
	}
	if app.Date() != "2026-01-01" {
		t.Errorf("Date() = %q", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %q", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() is nil")
	}
	if app.Config() == nil {
		t.Error("Config() is nil")
	}
	if app.Store() == nil {
		t.Error("Store() is nil")
	}
}

func TestApp_VersionCommand(t *testing.T) {
	calls := 0
	srv := updatesServer(t, nil, &calls)
	app, stdout, _ := testApp(t, srv)

	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.Equal(t, "sideko v1.2.3\n", stdout.String())
	assert.Zero(t, calls, "version skips the update check")
}

func TestApp_VersionCommandVerbose(t *testing.T) {
	app, stdout, _ := testApp(t, nil)

	require.NoError(t, app.Execute(context.Background(), []string{"version", "-v"}))
	assert.Contains(t, stdout.String(), "commit:   abc123")
	assert.Contains(t, stdout.String(), "built by: test")
}

func TestApp_UpdateNoticesShownAfterCommand(t *testing.T) {
	calls := 0
	srv := updatesServer(t, []sideko.CLIUpdate{
		{Severity: sideko.SeveritySuggested, Message: "v1.3.0 is available"},
	}, &calls)
	app, stdout, logs := testApp(t, srv)

	require.NoError(t, app.Execute(context.Background(), []string{"api", "list", "--display", "raw"}))
	assert.Equal(t, 1, calls)
	assert.Contains(t, stdout.String(), "petstore")
	assert.Contains(t, logs.String(), "v1.3.0 is available")
}

func TestApp_RequiredUpdateBlocksCommand(t *testing.T) {
	calls := 0
	srv := updatesServer(t, []sideko.CLIUpdate{
		{Severity: sideko.SeverityRequired, Message: "v1.0 is no longer supported"},
	}, &calls)
	app, stdout, logs := testApp(t, srv)

	err := app.Execute(context.Background(), []string{"api", "list", "--display", "raw"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUpdateRequired)
	assert.Empty(t, stdout.String())
	assert.Contains(t, logs.String(), "v1.0 is no longer supported")

	app.ReportError(err)
	assert.Contains(t, logs.String(), "must update cli to continue")
	assert.Contains(t, logs.String(), "install the latest release of the cli")
}

func TestApp_UnreachableUpdateServerOnlyWarns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/cli/updates", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /v1/api", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	app, _, logs := testApp(t, srv)

	require.NoError(t, app.Execute(context.Background(), []string{"api", "list", "--display", "raw"}))
	assert.Contains(t, logs.String(), "failed checking for cli updates")
}

func TestApp_ReportError(t *testing.T) {
	app, _, logs := testApp(t, nil)

	app.ReportError(nil)
	assert.Empty(t, logs.String())

	app.ReportError(&errors.APIError{
		StatusCode: http.StatusUnauthorized,
		Method:     http.MethodGet,
		URL:        "https://api.sideko.dev/v1/api",
		Body:       []byte(`{"description":"invalid key"}`),
	})
	out := logs.String()
	assert.Contains(t, out, "invalid key")
	assert.Contains(t, out, "authenticate the cli")
	assert.Contains(t, out, "verbose mode")
	assert.NotContains(t, out, "sk_test")
}

func TestSkipUpdateCheck(t *testing.T) {
	app, _, _ := testApp(t, nil)
	root := app.createRootCommand()

	for _, name := range []string{"version", "help", "__complete"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			continue
		}
		assert.True(t, skipUpdateCheck(cmd), name)
	}

	list, _, err := root.Find([]string{"api", "list"})
	require.NoError(t, err)
	assert.False(t, skipUpdateCheck(list))
}
