// Package completion installs shell completion scripts for the CLI.
package completion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/cmd/constants"
	pkgconstants "github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
)

// Paths are where a shell's completion script and rc file live.
type Paths struct {
	Script string
	RC     string
}

// PathsFor returns the install locations for shell under home.
func PathsFor(shell, home string) (Paths, error) {
	name := pkgconstants.AppName
	switch shell {
	case constants.ShellBash:
		return Paths{
			Script: filepath.Join(home, ".bash_completion.d", name),
			RC:     filepath.Join(home, ".bashrc"),
		}, nil
	case constants.ShellZsh:
		return Paths{
			Script: filepath.Join(home, ".zfunc", "_"+name),
			RC:     filepath.Join(home, ".zshrc"),
		}, nil
	case constants.ShellFish:
		return Paths{
			Script: filepath.Join(home, ".config", "fish", "completions", name+".fish"),
			RC:     filepath.Join(home, ".config", "fish", "config.fish"),
		}, nil
	default:
		return Paths{}, errors.NewValidationError("shell", shell,
			fmt.Sprintf("unsupported shell %q, must be one of: %s", shell, strings.Join(constants.Shells(), ", ")))
	}
}

// WriteScript generates root's completion script for shell at path.
func WriteScript(root *cobra.Command, shell, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), pkgconstants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	file, err := os.Create(path) // #nosec G304 - path comes from PathsFor
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	switch shell {
	case constants.ShellBash:
		err = root.GenBashCompletionV2(file, true)
	case constants.ShellZsh:
		err = root.GenZshCompletion(file)
	case constants.ShellFish:
		err = root.GenFishCompletion(file, true)
	default:
		err = fmt.Errorf("unsupported shell: %s", shell)
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// SourceLine is the block added to the rc file so the shell loads the
// script. Fish loads completions on its own and needs none.
func SourceLine(shell, script string) string {
	switch shell {
	case constants.ShellBash:
		return fmt.Sprintf("\n# added by sideko\n[[ -f %s ]] && source %s\n", script, script)
	case constants.ShellZsh:
		return "\n# added by sideko\nfpath=(~/.zfunc $fpath)\nautoload -Uz compinit && compinit\n"
	default:
		return ""
	}
}

// UpdateRC appends line to the rc file unless it is already present. The
// file must exist. It reports whether the file changed.
func UpdateRC(rcPath, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	content, err := os.ReadFile(rcPath)
	if err != nil {
		return false, errors.WrapIO("read", rcPath, err)
	}
	if strings.Contains(string(content), line) {
		return false, nil
	}

	f, err := os.OpenFile(rcPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return false, errors.WrapIO("open", rcPath, err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return false, errors.WrapIO("write", rcPath, err)
	}
	if err := f.Close(); err != nil {
		return false, errors.WrapIO("close", rcPath, err)
	}
	return true, nil
}
