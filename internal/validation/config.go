package validation

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/sideko-inc/sideko/pkg/errors"
)

// SDKConfig requires an existing .yml/.yaml file holding a YAML mapping.
func SDKConfig(path string) error {
	if err := YAMLFile(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.NewParseError("yaml", path, "sdk config is not valid yaml", err)
	}
	return nil
}
