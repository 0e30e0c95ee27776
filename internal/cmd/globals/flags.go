// Package globals provides shared flag structures and utilities for CLI commands.
package globals

import "github.com/spf13/cobra"

// Flags holds global common flags across all commands.
type Flags struct {
	Quiet    bool
	Verbose  int
	Config   string
	NoColor  bool
	LogLevel string
}

// AddFlags adds common flags to the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"no logging except for errors")
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v",
		"verbose logging (-v debug, -vv trace)")
	cmd.PersistentFlags().StringVar(&flags.Config, "config", "",
		"path to the sideko config file (default $HOME/.sideko), overrides SIDEKO_CONFIG_PATH")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"disable colored output")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "",
		"log level: trace, debug, info, warn, error (overrides -v/-q)")

	return flags
}

// Parse extracts global flags from the command hierarchy.
// This is useful for subcommands that need to access global flags when
// they weren't passed the flags struct directly.
func Parse(cmd *cobra.Command) *Flags {
	root := cmd.Root()

	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetCount("verbose")
	config, _ := root.PersistentFlags().GetString("config")
	noColor, _ := root.PersistentFlags().GetBool("no-color")
	logLevel, _ := root.PersistentFlags().GetString("log-level")

	return &Flags{
		Quiet:    quiet,
		Verbose:  verbose,
		Config:   config,
		NoColor:  noColor,
		LogLevel: logLevel,
	}
}
