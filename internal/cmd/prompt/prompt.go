// Package prompt asks the user questions on the terminal.
package prompt

import (
	"github.com/charmbracelet/huh"

	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/pkg/errors"
)

// Option is a choice offered by Select and MultiSelect.
type Option struct {
	Label string
	Value string
}

// Prompter asks questions. Commands depend on this interface so scripted
// answers can be used in tests.
type Prompter interface {
	Input(title, placeholder, initial string, validate func(string) error) (string, error)
	Select(title string, options []Option) (string, error)
	MultiSelect(title string, options []Option, validate func([]string) error) ([]string, error)
	Confirm(title, help string, initial bool) (bool, error)
}

// Terminal prompts interactively.
type Terminal struct{}

// customTheme keeps prompts in the CLI palette.
func customTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Foreground(styles.ColorCyan).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(styles.ColorGrey)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(styles.ColorGrey)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(styles.ColorCyan).SetString("> ")
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(styles.ColorGreen)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(styles.ColorGrey)
	return t
}

func wrap(title string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.WrapPrompt(title, errors.Join(errors.ErrCanceled, err))
	}
	return errors.WrapPrompt(title, err)
}

func toHuh(options []Option) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		out = append(out, huh.NewOption(o.Label, o.Value))
	}
	return out
}

// Input asks for free text.
func (Terminal) Input(title, placeholder, initial string, validate func(string) error) (string, error) {
	value := initial
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(customTheme()).Run()
	return value, wrap(title, err)
}

// Select asks for one of options and returns its value.
func (Terminal) Select(title string, options []Option) (string, error) {
	var value string
	err := huh.NewSelect[string]().
		Title(title).
		Options(toHuh(options)...).
		Value(&value).
		WithTheme(customTheme()).
		Run()
	return value, wrap(title, err)
}

// MultiSelect asks for any number of options and returns their values.
func (Terminal) MultiSelect(title string, options []Option, validate func([]string) error) ([]string, error) {
	var values []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(toHuh(options)...).
		Value(&values)
	if validate != nil {
		field = field.Validate(validate)
	}
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(customTheme()).Run()
	return values, wrap(title, err)
}

// Confirm asks a yes/no question.
func (Terminal) Confirm(title, help string, initial bool) (bool, error) {
	value := initial
	err := huh.NewConfirm().
		Title(title).
		Description(help).
		Affirmative("Yes").
		Negative("No").
		Value(&value).
		WithTheme(customTheme()).
		Run()
	return value, wrap(title, err)
}
