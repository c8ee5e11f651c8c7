package logger

import (
	"io"
	"log/slog"

	"github.com/appengine-ltd/sky-colony/internal/config"
)

// New builds the process logger. Callers scope it further with
// With("component", ..., "operation", ...).
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	logger.With("component", "logger").Debug("Logger initialized",
		"level", cfg.Level,
		"json_format", cfg.JSONFormat,
	)
	return logger
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
