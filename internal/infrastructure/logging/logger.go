package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lumenhaus/lumen-core/internal/infrastructure/config"
)

// Logger wraps slog.Logger with the default fields every Lumen Core log
// line carries. All methods are safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of config.yaml.
//
// Format "text" is for development; anything else gets JSON. Output
// "stderr" redirects; anything else goes to stdout. Every entry carries
// the service name and version so aggregated logs from several services
// stay attributable.
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	handler := newHandler(cfg.Format, output, parseLevel(cfg.Level))
	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "lumen-core"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// newHandler picks the slog handler for the configured format.
func newHandler(format string, output io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(format) == "text" {
		return slog.NewTextHandler(output, opts)
	}
	return slog.NewJSONHandler(output, opts)
}

// parseLevel converts a config level string to a slog.Level.
// Unrecognised levels default to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child Logger carrying additional default attributes.
//
// Example:
//
//	syncLogger := logger.With("component", "synchronizer")
//	syncLogger.Info("published") // Includes component=synchronizer
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default creates the logger used during early startup, before the
// configuration file has been read: JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
