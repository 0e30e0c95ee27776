package validation

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/sideko-inc/sideko/pkg/errors"
)

var newAPIName = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NewAPIName is the stricter rule for names of APIs created interactively:
// at least three lower-case alphanumeric characters, separated by single dashes.
func NewAPIName(name string) error {
	if len(name) < 3 {
		return errors.NewValidationError("name", name, "api name must be at least 3 characters")
	}
	if !newAPIName.MatchString(name) {
		return errors.NewValidationError("name", name, "invalid api name")
	}
	return nil
}

// Semver requires a strict semantic version such as 1.4.0.
func Semver(version string) error {
	if _, err := semver.StrictNewVersion(version); err != nil {
		return errors.NewValidationError("version", version, fmt.Sprintf("invalid semantic version: %v", err))
	}
	return nil
}
