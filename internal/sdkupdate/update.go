// Package sdkupdate regenerates a managed SDK repository in place. The
// repository's git history is sent to the Sideko API, which answers with a
// patch that is applied with git.
package sdkupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/archive"
	"github.com/sideko-inc/sideko/internal/cmd/emoji"
	"github.com/sideko-inc/sideko/internal/cmd/spinner"
	"github.com/sideko-inc/sideko/internal/validation"
	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// API is the part of the Sideko API an update needs.
type API interface {
	UpdateSDK(ctx context.Context, r sideko.UpdateSDKRequest) (*sideko.BinaryResponse, error)
}

// Progress reports the update to the user.
type Progress interface {
	StopSuccess(msg string)
	StopWarn(msg string)
	StopError(msg string)
}

// Request describes an update.
type Request struct {
	RepoPath        string
	ConfigPath      string
	SDKVersion      string
	APIVersion      string
	AllowLintErrors bool
}

// Outcome is what an update did.
type Outcome int

// Outcomes.
const (
	// Applied means the patch was applied and removed.
	Applied Outcome = iota
	// NoChanges means the server had nothing to change.
	NoChanges
)

// Updater runs SDK updates.
type Updater struct {
	api           API
	logger        *zerolog.Logger
	startProgress func(text string) Progress
}

// Option configures an Updater.
type Option func(*Updater)

// WithProgress replaces the spinner.
func WithProgress(start func(text string) Progress) Option {
	return func(u *Updater) {
		u.startProgress = start
	}
}

// New creates an Updater.
func New(api API, logger *zerolog.Logger, opts ...Option) *Updater {
	u := &Updater{api: api, logger: logger}
	u.startProgress = func(text string) Progress {
		return spinner.Start(text, logger)
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Update checks the repository, asks the server for a patch and applies it.
// Nothing in the repository changes unless every check passes.
func (u *Updater) Update(ctx context.Context, r Request) (Outcome, error) {
	repo, err := filepath.Abs(r.RepoPath)
	if err != nil {
		return 0, errors.WrapIO("resolve", r.RepoPath, err)
	}
	sdkID, err := u.Preflight(ctx, repo, r.ConfigPath)
	if err != nil {
		return 0, err
	}

	tmp, err := os.MkdirTemp("", "sideko-sdk-update-")
	if err != nil {
		return 0, errors.WrapIO("create", "temporary directory", err)
	}
	defer os.RemoveAll(tmp)

	gitArchive := filepath.Join(tmp, constants.GitArchiveName)
	if err := archive.TarGz(filepath.Join(repo, ".git"), gitArchive); err != nil {
		return 0, err
	}
	u.logger.Debug().Str("archive", gitArchive).Msg("packaged git history")

	progress := u.startProgress(emoji.Prefix(emoji.Wand, "updating sdk"))
	resp, err := u.api.UpdateSDK(ctx, sideko.UpdateSDKRequest{
		ConfigPath:      r.ConfigPath,
		PrevSDKGitPath:  gitArchive,
		PrevSDKID:       sdkID,
		SDKVersion:      r.SDKVersion,
		APIVersion:      r.APIVersion,
		AllowLintErrors: r.AllowLintErrors,
	})
	if err != nil {
		progress.StopError("failed updating sdk")
		return 0, err
	}

	if len(resp.Content) == 0 {
		progress.StopWarn("no updates to apply")
		return NoChanges, nil
	}

	if err := u.apply(ctx, repo, resp.Content); err != nil {
		progress.StopError("failed to apply update")
		return 0, err
	}
	progress.StopSuccess(emoji.Prefix(emoji.Rocket, "update applied!"))
	return Applied, nil
}

// Preflight validates the repository and config without touching either.
// It returns the SDK id recorded in the repository.
func (u *Updater) Preflight(ctx context.Context, repo, configPath string) (string, error) {
	info, err := os.Stat(repo)
	if err != nil || !info.IsDir() {
		return "", errors.NewValidationError("repo", repo, "path is not a directory")
	}

	gitDir := filepath.Join(repo, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return "", &errors.PatchError{
			Kind:    errors.ErrNotAnSDK,
			Path:    repo,
			Message: fmt.Sprintf("Path is not the root of a git repository, %s not present", gitDir),
		}
	}

	status, err := git(ctx, repo, "check git status", "status", "--porcelain")
	if err != nil {
		return "", &errors.GeneralError{
			Message: "failed to check git status, is `git` installed?",
			Debug:   errors.DebugInfo(err),
			Err:     err,
		}
	}
	if strings.TrimSpace(status) != "" {
		u.logger.Debug().Str("status", status).Msg("uncommitted changes")
		return "", &errors.PatchError{
			Kind:    errors.ErrDirtyTree,
			Path:    repo,
			Message: "git working directory is not clean. please commit or stash your changes to get a clean working directory before updating",
		}
	}

	sdkID, err := u.SDKID(repo)
	if err != nil {
		return "", err
	}
	if err := validation.SDKConfig(configPath); err != nil {
		return "", err
	}
	return sdkID, nil
}

type sdkMetadata struct {
	ID string `json:"id"`
}

// SDKID reads the sdk id recorded in the repository's metadata file.
func (u *Updater) SDKID(repo string) (string, error) {
	path := filepath.Join(repo, constants.SDKMetadataFile)
	notAnSDK := func(msg string, err error) error {
		return &errors.PatchError{Kind: errors.ErrNotAnSDK, Path: path, Message: msg, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", notAnSDK(fmt.Sprintf("%s not found, is %s a sideko generated sdk?", constants.SDKMetadataFile, repo), err)
	}
	var meta sdkMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", notAnSDK(fmt.Sprintf("could not parse %s", path), err)
	}
	if strings.TrimSpace(meta.ID) == "" {
		return "", notAnSDK(fmt.Sprintf("%s does not contain an sdk id", path), nil)
	}
	if _, err := uuid.Parse(meta.ID); err != nil {
		u.logger.Warn().Msgf("sdk id %q in %s is not a uuid", meta.ID, constants.SDKMetadataFile)
	}
	return meta.ID, nil
}

// apply writes the patch into the repository and applies it. The patch file
// is removed on success and kept on failure.
func (u *Updater) apply(ctx context.Context, repo string, patch []byte) error {
	patchPath := filepath.Join(repo, constants.PatchFileName)
	if err := os.WriteFile(patchPath, patch, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", patchPath, err)
	}

	if _, err := git(ctx, repo, "apply sdk update", "apply", constants.PatchFileName); err != nil {
		return &errors.PatchError{
			Kind:    errors.ErrPatchRejected,
			Path:    patchPath,
			Message: fmt.Sprintf("failed to apply update, the patch was saved to %s", patchPath),
			Err:     err,
		}
	}

	if err := os.Remove(patchPath); err != nil {
		return errors.WrapIO("delete", patchPath, err)
	}
	return nil
}
