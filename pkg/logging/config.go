package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/pkg/constants"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string

	// Format is the output format (cli, console, json)
	Format string

	// Output is where to write logs (stderr, stdout, or file path)
	Output string

	// Writer overrides Output when set
	Writer io.Writer

	// NoColor disables color output in cli and console mode
	NoColor bool

	// AddCaller includes file:line in log output
	AddCaller bool

	// Fields are default fields to include in all logs
	Fields map[string]any
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  "cli",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
		Fields:  make(map[string]any),
	}
}

// NewLoggerFromConfig creates a new logger from configuration
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	writer := getWriter(cfg)

	ctx := zerolog.New(writer).Level(level).With()
	if !strings.EqualFold(cfg.Format, "cli") {
		ctx = ctx.Timestamp()
	}
	if cfg.AddCaller {
		ctx = ctx.Caller()
	}
	for k, v := range cfg.Fields {
		ctx = addFieldToContext(ctx, k, v)
	}

	return ctx.Logger()
}

// Configure updates the default logger with the given configuration
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// getWriter creates the appropriate writer based on configuration
func getWriter(cfg *Config) io.Writer {
	output := cfg.Writer
	if output == nil {
		switch strings.ToLower(cfg.Output) {
		case "stdout":
			output = os.Stdout
		case "discard", "none":
			output = io.Discard
		case "", "stderr":
			output = os.Stderr
		default:
			file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
			if err != nil {
				output = os.Stderr
			} else {
				output = file
			}
		}
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return output
	case "console", "pretty":
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	default:
		return NewCLIWriter(output, cfg.NoColor)
	}
}

// NewCLIWriter renders log events the way the CLI prints them: no timestamp,
// info messages bare, every other level prefixed with its name.
func NewCLIWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:          out,
		NoColor:      noColor,
		PartsOrder:   []string{zerolog.LevelFieldName, zerolog.CallerFieldName, zerolog.MessageFieldName},
		PartsExclude: []string{zerolog.TimestampFieldName},
		FormatLevel:  cliLevelFormatter(noColor),
	}
}

var levelColors = map[string]lipgloss.Color{
	zerolog.LevelTraceValue: lipgloss.Color("5"),
	zerolog.LevelDebugValue: lipgloss.Color("4"),
	zerolog.LevelWarnValue:  lipgloss.Color("3"),
	zerolog.LevelErrorValue: lipgloss.Color("1"),
	zerolog.LevelFatalValue: lipgloss.Color("1"),
	zerolog.LevelPanicValue: lipgloss.Color("1"),
}

func cliLevelFormatter(noColor bool) zerolog.Formatter {
	return func(i any) string {
		level, _ := i.(string)
		if level == "" || level == zerolog.LevelInfoValue {
			return ""
		}
		label := fmt.Sprintf("%s:", level)
		if noColor {
			return label
		}
		color, ok := levelColors[level]
		if !ok {
			return label
		}
		return lipgloss.NewStyle().Foreground(color).Bold(true).Render(label)
	}
}

// ParseLevel parses a log level string
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(level); err == nil {
			return l
		}
		return zerolog.InfoLevel
	}
}
