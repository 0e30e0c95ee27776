package appcontext

import (
	"bytes"
	"io"

	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/cmd/prompt"
	"github.com/sideko-inc/sideko/internal/editor"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding field.
// If a field is nil, the method returns a default/zero value.
type Mock struct {
	ClientFunc      func() (*sideko.Client, error)
	StoreValue      Store
	LoggerValue     *zerolog.Logger
	PrompterValue   prompt.Prompter
	Out             *bytes.Buffer
	OpenBrowserFunc func(url string) error
	Clipboard       []string
	ClipboardErr    error
	Editor          editor.Runner
	Home            string
	VersionValue    string
}

// Client returns a client using the mock function or an anonymous client.
func (m *Mock) Client() (*sideko.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return sideko.NewClient("http://127.0.0.1:0/v1", ""), nil
}

// Store returns the configured store.
func (m *Mock) Store() Store {
	return m.StoreValue
}

// Logger returns the configured logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerValue != nil {
		return m.LoggerValue
	}
	logger := zerolog.Nop()
	return &logger
}

// Prompter returns the configured prompter or one with no answers.
func (m *Mock) Prompter() prompt.Prompter {
	if m.PrompterValue != nil {
		return m.PrompterValue
	}
	return prompt.NewScripted()
}

// Stdout returns Out, creating it on first use.
func (m *Mock) Stdout() io.Writer {
	if m.Out == nil {
		m.Out = &bytes.Buffer{}
	}
	return m.Out
}

// OpenBrowser calls the mock function or does nothing.
func (m *Mock) OpenBrowser(url string) error {
	if m.OpenBrowserFunc != nil {
		return m.OpenBrowserFunc(url)
	}
	return nil
}

// CopyToClipboard records text unless ClipboardErr is set.
func (m *Mock) CopyToClipboard(text string) error {
	if m.ClipboardErr != nil {
		return m.ClipboardErr
	}
	m.Clipboard = append(m.Clipboard, text)
	return nil
}

// EditorRunner returns the configured runner.
func (m *Mock) EditorRunner() editor.Runner {
	return m.Editor
}

// HomeDir returns Home.
func (m *Mock) HomeDir() (string, error) {
	return m.Home, nil
}

// Version returns version or "dev".
func (m *Mock) Version() string {
	if m.VersionValue != "" {
		return m.VersionValue
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
