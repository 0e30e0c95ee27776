// Package validation checks user-supplied paths and names before any
// request is made.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sideko-inc/sideko/pkg/errors"
)

// Extension sets.
var (
	OpenAPIExtensions = []string{".json", ".yml", ".yaml"}
	YAMLExtensions    = []string{".yml", ".yaml"}
)

var apiName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)

// File requires path to be an existing file, or absent when allowMissing.
func File(path string, allowMissing bool) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.Mode().IsRegular():
		return nil
	case allowMissing && errors.Is(err, os.ErrNotExist):
		return nil
	case allowMissing:
		return errors.NewValidationError("path", path, fmt.Sprintf("path `%s` must be a file or a non-existent path", path))
	default:
		return errors.NewValidationError("path", path, fmt.Sprintf("path `%s` must be an existing file", path))
	}
}

// Dir requires path to be an existing directory, or absent when allowMissing.
func Dir(path string, allowMissing bool) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case allowMissing && errors.Is(err, os.ErrNotExist):
		return nil
	case allowMissing:
		return errors.NewValidationError("path", path, fmt.Sprintf("path `%s` must be a directory or a non-existent path", path))
	default:
		return errors.NewValidationError("path", path, fmt.Sprintf("path `%s` must be an existing directory", path))
	}
}

// FileWithExtension is File plus an extension check.
func FileWithExtension(path string, allowMissing bool, extensions ...string) error {
	if err := File(path, allowMissing); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.NewValidationError("path", path,
		fmt.Sprintf("path has incorrect extension, only %s are permitted", strings.Join(extensions, ", ")))
}

// OpenAPIFile requires an existing JSON or YAML document.
func OpenAPIFile(path string) error {
	return FileWithExtension(path, false, OpenAPIExtensions...)
}

// YAMLFile requires an existing YAML file.
func YAMLFile(path string) error {
	return FileWithExtension(path, false, YAMLExtensions...)
}

// YAMLOutput allows an existing YAML file or a path that does not exist yet.
func YAMLOutput(path string) error {
	return FileWithExtension(path, true, YAMLExtensions...)
}

// APIName requires letters, digits and dashes, e.g. my-api.
func APIName(name string) error {
	if !apiName.MatchString(name) {
		return errors.NewValidationError("name", name, "api name may only contain alphanumeric characters and dashes, e.g. `my-api`")
	}
	return nil
}
