package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sideko-inc/sideko/pkg/constants"
	pkgerrors "github.com/sideko-inc/sideko/pkg/errors"
)

// rewriteDotfile drops every line assigning name and, when replacement is not
// empty, appends it. Other lines are kept verbatim. The file is replaced
// atomically through a sibling temp file.
func rewriteDotfile(path, name, replacement string) error {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return pkgerrors.WrapIO("read", path, err)
	}

	lines := filterAssignments(string(content), name)
	if replacement != "" {
		lines = append(lines, replacement)
	}

	var out string
	if len(lines) > 0 {
		out = strings.Join(lines, "\n") + "\n"
	}
	return writeFileAtomic(path, []byte(out))
}

// filterAssignments splits content into lines, removing those that assign name.
func filterAssignments(content, name string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if assigns(line, name) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

func assigns(line, name string) bool {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "export ")
	return strings.HasPrefix(strings.TrimSpace(trimmed), name+"=")
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return pkgerrors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return pkgerrors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return pkgerrors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Chmod(constants.SecureFilePermissions); err != nil {
		_ = tmp.Close()
		return pkgerrors.WrapIO("chmod", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.WrapIO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return pkgerrors.WrapIO("rename", path, err)
	}
	return nil
}
