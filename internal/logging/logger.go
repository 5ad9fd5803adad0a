// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options controls logger construction.
type Options struct {
	Level  string    // debug, info, warn or error
	Format string    // text or json
	Writer io.Writer // defaults to os.Stderr
	RunID  string    // attached to every record when set
}

// New creates a slog logger. Text output goes through the charm handler,
// JSON output through slog's own JSON handler.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(opts.Level)

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
		})
	}

	logger := slog.New(handler)
	if opts.RunID != "" {
		logger = logger.With(slog.String("run_id", opts.RunID))
	}
	return logger
}

// Setup creates a logger and installs it as slog's default.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string log level to slog.Level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRunID returns a fresh identifier for one report run.
func NewRunID() string {
	return uuid.NewString()
}
