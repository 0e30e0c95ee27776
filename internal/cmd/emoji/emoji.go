// Package emoji provides the symbols used in CLI output so that commands
// share one visual language.
package emoji

// Progress and outcome symbols.
const (
	// Wand marks work the server is generating.
	Wand = "🪄"
	// Rocket marks a finished generation or update.
	Rocket = "🚀"
	// Book marks documentation deployments.
	Book = "📖"
	// Link heads columns holding URLs.
	Link = "🔗"
	// Key marks credential operations.
	Key = "🔑"
	// Hint prefixes recovery suggestions.
	Hint = "💡"
)

// Status dots.
const (
	On  = "🟢"
	Off = "🔴"
)

// Prefix joins a symbol and a message with the spacing the symbol needs.
// Wand renders narrow in most terminals and gets an extra space.
func Prefix(symbol, msg string) string {
	if symbol == Wand {
		return symbol + "  " + msg
	}
	return symbol + " " + msg
}
