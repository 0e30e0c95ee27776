package constants

// Shell type constants for completion commands.
const (
	// ShellBash represents the Bash shell.
	ShellBash = "bash"

	// ShellZsh represents the Zsh shell.
	ShellZsh = "zsh"

	// ShellFish represents the Fish shell.
	ShellFish = "fish"
)

// Shells lists the shells completion can be installed for.
func Shells() []string {
	return []string{ShellBash, ShellZsh, ShellFish}
}
