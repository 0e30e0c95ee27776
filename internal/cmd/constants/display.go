// Package constants provides shared constants for CLI commands.
package constants

// Display modes accepted by --display.
const (
	// DisplayPretty renders tables.
	DisplayPretty = "pretty"

	// DisplayRaw prints the server's JSON.
	DisplayRaw = "raw"
)
