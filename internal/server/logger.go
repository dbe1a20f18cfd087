package server

import (
	"io"
	"log/slog"
	"os"
	"secure-auth-app/internal/config"
	"secure-auth-app/internal/version"
)

func setupLogger(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stderr, cfg.Log)
}

// newLogger writes text or json records to w, tagged with the service name.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.Level == "debug",
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("service", version.Program)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
