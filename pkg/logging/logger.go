// Package logging provides structured logging for the sideko CLI using zerolog.
// Human-facing output is rendered by a console writer tuned for a CLI (no
// timestamps, bare info lines) while JSON output stays available for scripts.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Msg("✔ CLI authenticated")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	logging.FromContext(ctx).Debug().Str("deployment_id", id).Msg("polling")
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger zerolog.Logger

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

func init() {
	defaultLogger = NewLoggerFromConfig(&Config{
		Level:   getEnvOrDefault("LOG_LEVEL", "info"),
		Format:  getEnvOrDefault("LOG_FORMAT", "cli"),
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	})
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a new JSON logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// Enabled reports whether logger emits events at level.
func Enabled(logger *zerolog.Logger, level zerolog.Level) bool {
	if logger == nil {
		return false
	}
	return level >= logger.GetLevel() && level >= zerolog.GlobalLevel()
}

// getEnvOrDefault returns an environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
