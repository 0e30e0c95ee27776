package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/sideko-inc/sideko/pkg/constants"
)

// newEnv builds the viper instance backing the environment layer. Values are
// looked up in the process environment on every read, so changes made with
// os.Setenv after construction are visible.
func newEnv() *viper.Viper {
	v := viper.New()
	for _, k := range Keys() {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(append([]string{k.viperKey()}, k.envNames()...)...)
	}
	v.SetDefault(BaseURL.viperKey(), constants.DefaultBaseURL)
	return v
}

// envValue returns the environment value of k and the variable it came from.
// Defaults do not count as environment values.
func (s *Store) envValue(k Key) (value, source string, ok bool) {
	for _, name := range k.envNames() {
		if v, set := os.LookupEnv(name); set && v != "" {
			return s.env.GetString(k.viperKey()), name, true
		}
	}
	return "", "", false
}
