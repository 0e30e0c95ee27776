package app

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/sideko-inc/sideko/internal/cmd/globals"
)

// Config holds the process-level settings: global flags and the logging
// environment. Sideko's own keys (api key, base url, config path) live in
// the config store.
type Config struct {
	// Global flags
	Quiet      bool
	Verbose    int
	NoColor    bool
	LogLevel   string
	ConfigPath string

	// EnvLogLevel is LOG_LEVEL, used when no flag selects a level.
	EnvLogLevel string

	// Logging configuration
	LogFormat string
	LogOutput string
}

// LoadConfig reads logging settings from the environment. Flags are
// applied later by UpdateFromFlags.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for key, env := range map[string]string{
		"log_level":  "LOG_LEVEL",
		"log_format": "LOG_FORMAT",
		"log_output": "LOG_OUTPUT",
		"no_color":   "NO_COLOR",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}
	v.SetDefault("log_format", "cli")
	v.SetDefault("log_output", "stderr")

	return &Config{
		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
		NoColor:     v.GetString("no_color") != "",
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so that flag values take
// precedence over the environment.
func (c *Config) UpdateFromFlags(flags *globals.Flags) {
	c.Quiet = flags.Quiet
	c.Verbose = flags.Verbose
	c.NoColor = c.NoColor || flags.NoColor
	c.LogLevel = flags.LogLevel
	c.ConfigPath = flags.Config
}
