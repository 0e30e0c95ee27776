// Package config provides the config command, which manages the CLI's own
// setup.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/completion"
	"github.com/sideko-inc/sideko/internal/cmd/constants"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	pkgconstants "github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
)

// NewCommand creates the config command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		GroupID: "management",
		Short:   "Configure the CLI",
	}
	cmd.AddCommand(newAutocompleteCommand(app))
	return cmd
}

func newAutocompleteCommand(app appcontext.Interface) *cobra.Command {
	var shell string
	cmd := &cobra.Command{
		Use:   "autocomplete",
		Short: "Install shell completions for the CLI",
		Long: `Autocomplete writes a completion script for your shell and adds the
lines needed to load it to your shell's rc file.`,
		Example: `  sideko config autocomplete --shell zsh`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAutocomplete(cmd, app, shell)
		},
	}
	cmd.Flags().StringVar(&shell, "shell", "", "shell to install completions for ("+strings.Join(constants.Shells(), ", ")+")")
	_ = cmd.MarkFlagRequired("shell")
	_ = cmd.RegisterFlagCompletionFunc("shell", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return constants.Shells(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runAutocomplete(cmd *cobra.Command, app appcontext.Interface, shell string) error {
	home, err := app.HomeDir()
	if err != nil {
		return errors.NewGeneralError("could not find home directory")
	}
	paths, err := completion.PathsFor(shell, home)
	if err != nil {
		return err
	}

	prompter := app.Prompter()
	message := fmt.Sprintf("this will:\n1. create completion script at: %s\n2. update shell configuration at: %s\n\ncontinue?", paths.Script, paths.RC)
	proceed, err := prompter.Confirm(message, "", true)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	if err := completion.WriteScript(cmd.Root(), shell, paths.Script); err != nil {
		return err
	}
	if err := updateRC(app, shell, paths); err != nil {
		return err
	}

	logger := app.Logger()
	name := cmd.Root().Name()
	logger.Info().Msg(styles.Success(fmt.Sprintf("installed %s completions for %s", shell, name)))
	logger.Info().Msg(styles.Success("saved completion script: " + paths.Script))
	logger.Info().Msg(styles.Success("saved updated RC file: " + paths.RC))
	return nil
}

// updateRC adds the source block to the rc file, offering to create the
// file when it is missing.
func updateRC(app appcontext.Interface, shell string, paths completion.Paths) error {
	if _, err := os.Stat(paths.RC); errors.Is(err, os.ErrNotExist) {
		create, err := app.Prompter().Confirm(fmt.Sprintf("rc file %s does not exist. create it?", paths.RC), "", true)
		if err != nil {
			return err
		}
		if !create {
			return nil
		}
		if err := os.WriteFile(paths.RC, nil, pkgconstants.FilePermissions); err != nil {
			return errors.WrapIO("create", paths.RC, err)
		}
	}
	changed, err := completion.UpdateRC(paths.RC, completion.SourceLine(shell, paths.Script))
	if err != nil {
		return err
	}
	app.Logger().Debug().Bool("changed", changed).Str("rc", paths.RC).Msg("updated rc file")
	return nil
}
