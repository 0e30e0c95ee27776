package sdkupdate

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

const sdkID = "3f2b8c1e-4d5a-4b6c-9e7f-0a1b2c3d4e5f"

type fakeAPI struct {
	patch []byte
	err   error

	mu       sync.Mutex
	calls    int
	request  sideko.UpdateSDKRequest
	archived int64
}

func (f *fakeAPI) UpdateSDK(_ context.Context, r sideko.UpdateSDKRequest) (*sideko.BinaryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.request = r
	if info, err := os.Stat(r.PrevSDKGitPath); err == nil {
		f.archived = info.Size()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &sideko.BinaryResponse{Content: f.patch}, nil
}

type recorder struct {
	events []string
}

func (r *recorder) StopSuccess(msg string) { r.events = append(r.events, "success "+msg) }
func (r *recorder) StopWarn(msg string)    { r.events = append(r.events, "warn "+msg) }
func (r *recorder) StopError(msg string)   { r.events = append(r.events, "error "+msg) }

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-c", "user.email=dev@acme.dev", "-c", "user.name=dev"}, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// newSDKRepo creates a committed managed SDK repository and a config file
// outside of it.
func newSDKRepo(t *testing.T) (repo, config string) {
	t.Helper()
	requireGit(t)

	repo = t.TempDir()
	run(t, repo, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".sdk.json"), []byte(`{"id":"`+sdkID+`"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("hello\n"), 0o644))
	run(t, repo, "add", ".")
	run(t, repo, "commit", "-q", "-m", "initial")

	config = filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(config, []byte("language: python\nmodules: []\n"), 0o644))
	return repo, config
}

func newTestUpdater(api API, rec *recorder, logger *logging.TestLogger) *Updater {
	return New(api, logger.Logger, WithProgress(func(string) Progress { return rec }))
}

const readmePatch = `diff --git a/README.md b/README.md
--- a/README.md
+++ b/README.md
@@ -1 +1 @@
-hello
+hello world
`

func TestUpdateApplies(t *testing.T) {
	repo, config := newSDKRepo(t)
	api := &fakeAPI{patch: []byte(readmePatch)}
	rec := &recorder{}

	outcome, err := newTestUpdater(api, rec, logging.NewTestLogger(t)).Update(context.Background(), Request{
		RepoPath:   repo,
		ConfigPath: config,
		SDKVersion: "0.2.0",
	})
	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)

	got, err := os.ReadFile(filepath.Join(repo, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(got))
	assert.NoFileExists(t, filepath.Join(repo, "sdk_update.patch"))

	assert.Equal(t, sdkID, api.request.PrevSDKID)
	assert.Equal(t, "0.2.0", api.request.SDKVersion)
	assert.Positive(t, api.archived)
	assert.NoFileExists(t, api.request.PrevSDKGitPath)
	assert.Equal(t, []string{"success 🚀 update applied!"}, rec.events)
}

func TestUpdateDirtyTree(t *testing.T) {
	repo, config := newSDKRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("edited\n"), 0o644))
	api := &fakeAPI{patch: []byte(readmePatch)}

	_, err := newTestUpdater(api, &recorder{}, logging.NewTestLogger(t)).Update(context.Background(), Request{
		RepoPath:   repo,
		ConfigPath: config,
		SDKVersion: "0.2.0",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrDirtyTree))
	assert.Contains(t, err.Error(), "clean working directory")
	assert.Zero(t, api.calls)
	assert.NoFileExists(t, filepath.Join(repo, "sdk_update.patch"))
}

func TestUpdateEmptyPatch(t *testing.T) {
	repo, config := newSDKRepo(t)
	rec := &recorder{}

	outcome, err := newTestUpdater(&fakeAPI{}, rec, logging.NewTestLogger(t)).Update(context.Background(), Request{
		RepoPath:   repo,
		ConfigPath: config,
		SDKVersion: "0.2.0",
	})
	require.NoError(t, err)
	assert.Equal(t, NoChanges, outcome)
	assert.Equal(t, []string{"warn no updates to apply"}, rec.events)
	assert.NoFileExists(t, filepath.Join(repo, "sdk_update.patch"))
}

func TestUpdateApplyFailureKeepsPatch(t *testing.T) {
	repo, config := newSDKRepo(t)
	bad := []byte(`diff --git a/missing.py b/missing.py
--- a/missing.py
+++ b/missing.py
@@ -1 +1 @@
-print("old")
+print("new")
`)
	rec := &recorder{}

	_, err := newTestUpdater(&fakeAPI{patch: bad}, rec, logging.NewTestLogger(t)).Update(context.Background(), Request{
		RepoPath:   repo,
		ConfigPath: config,
		SDKVersion: "0.2.0",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrPatchRejected))

	patchPath := filepath.Join(repo, "sdk_update.patch")
	assert.Contains(t, err.Error(), patchPath)
	kept, readErr := os.ReadFile(patchPath)
	require.NoError(t, readErr)
	assert.Equal(t, bad, kept)
	assert.Contains(t, pkgerrors.DebugInfo(err), "stderr:")
	assert.Equal(t, []string{"error failed to apply update"}, rec.events)
}

func TestPreflight(t *testing.T) {
	requireGit(t)

	t.Run("not a git repository", func(t *testing.T) {
		dir := t.TempDir()
		_, err := New(&fakeAPI{}, logging.NewNopLogger()).Preflight(context.Background(), dir, "cfg.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Path is not the root of a git repository")
	})

	t.Run("missing sdk metadata", func(t *testing.T) {
		repo, config := newSDKRepo(t)
		run(t, repo, "rm", "-q", ".sdk.json")
		run(t, repo, "commit", "-q", "-m", "drop metadata")

		_, err := New(&fakeAPI{}, logging.NewNopLogger()).Preflight(context.Background(), repo, config)
		assert.True(t, pkgerrors.Is(err, pkgerrors.ErrNotAnSDK))
	})

	t.Run("config must be yaml", func(t *testing.T) {
		repo, _ := newSDKRepo(t)
		config := filepath.Join(t.TempDir(), "cfg.json")
		require.NoError(t, os.WriteFile(config, []byte("{}"), 0o644))

		_, err := New(&fakeAPI{}, logging.NewNopLogger()).Preflight(context.Background(), repo, config)
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("non uuid id warns", func(t *testing.T) {
		repo, config := newSDKRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(repo, ".sdk.json"), []byte(`{"id":"legacy-7"}`), 0o644))
		run(t, repo, "commit", "-q", "-am", "legacy id")
		logger := logging.NewTestLogger(t)

		id, err := New(&fakeAPI{}, logger.Logger).Preflight(context.Background(), repo, config)
		require.NoError(t, err)
		assert.Equal(t, "legacy-7", id)
		logger.AssertContains(t, "warn: sdk id \"legacy-7\" in .sdk.json is not a uuid")
	})
}
