package globals

import (
	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/cmd/constants"
	"github.com/sideko-inc/sideko/internal/cmd/output"
)

// DisplayFlags holds flags for commands that print server resources.
type DisplayFlags struct {
	Display string
	Limit   int
}

// AddDisplayFlags adds --display to a command.
func AddDisplayFlags(cmd *cobra.Command) *DisplayFlags {
	flags := &DisplayFlags{}
	cmd.Flags().StringVar(&flags.Display, "display", constants.DisplayPretty,
		"display result as a raw json or prettified")
	return flags
}

// AddLimitFlag adds --limit to a command that already has display flags.
func (f *DisplayFlags) AddLimitFlag(cmd *cobra.Command, def int, usage string) {
	cmd.Flags().IntVar(&f.Limit, "limit", def, usage)
}

// Format validates --display.
func (f *DisplayFlags) Format() (output.Format, error) {
	return output.ParseFormat(f.Display)
}

// ParseDisplay extracts display flags from a command.
// The command must have had AddDisplayFlags called on it, otherwise this will panic.
func ParseDisplay(cmd *cobra.Command) *DisplayFlags {
	flags := &DisplayFlags{Display: mustGetString(cmd, "display")}
	if cmd.Flags().Lookup("limit") != nil {
		flags.Limit = mustGetInt(cmd, "limit")
	}
	return flags
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
